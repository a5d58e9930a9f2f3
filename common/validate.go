package common

import (
	"encoding/hex"
	"reflect"
	"strings"

	"gopkg.in/go-playground/validator.v9"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields under the names used in config files.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("toml"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}

		return name
	})

	err := v.RegisterValidation("hexbytes", func(fl validator.FieldLevel) bool {
		_, err := hex.DecodeString(fl.Field().String())
		return err == nil
	})
	if err != nil {
		panic(err)
	}

	return v
}

// ValidateFields checks a per-backend field set and reports the first failing
// field, in declaration order, as a config error.
func ValidateFields(fields interface{}) error {
	err := validate.Struct(fields)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return &Error{Kind: KindConfig, ConfigKind: InvalidField, Err: err}
	}

	first := verrs[0]
	switch first.Tag() {
	case "required":
		return NewMissingField(first.Field())

	case "hexbytes":
		return NewParsingHexError(first.Field())

	default:
		return NewInvalidField(first.Field(), err)
	}
}

// DecodeHex decodes a field already accepted by ValidateFields.
func DecodeHex(field, value string) ([]byte, error) {
	b, err := hex.DecodeString(value)
	if err != nil {
		return nil, NewParsingHexError(field)
	}

	return b, nil
}
