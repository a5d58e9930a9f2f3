package clnrpc

import (
	"math"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// message is implemented by every type in node.pb.go.
type message interface {
	marshal(b []byte) []byte
	unmarshal(b []byte) error
}

// Codec encodes messages in protobuf wire format. Use it with
// grpc.ForceCodec / grpc.ForceServerCodec.
type Codec struct{}

func (Codec) Marshal(v interface{}) ([]byte, error) {
	m, ok := v.(message)
	if !ok {
		return nil, errors.Errorf("clnrpc: can't marshal %T", v)
	}

	return m.marshal(nil), nil
}

func (Codec) Unmarshal(data []byte, v interface{}) error {
	m, ok := v.(message)
	if !ok {
		return errors.Errorf("clnrpc: can't unmarshal into %T", v)
	}

	return m.unmarshal(data)
}

func (Codec) Name() string { return "proto" }

// fieldFunc consumes the value of one field and returns the number of bytes
// read; 0 means the field is unknown and gets skipped.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

func unmarshalFields(b []byte, field fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		n, err := field(num, typ, b)
		if err != nil {
			return err
		}

		if n == 0 {
			n = protowire.ConsumeFieldValue(num, typ, b)
		}

		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}

	return nil
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}

	return appendOptString(b, num, &v)
}

func appendOptString(b []byte, num protowire.Number, v *string) []byte {
	if v == nil {
		return b
	}

	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, *v)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}

	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendUint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}

	return appendOptUint(b, num, &v)
}

func appendOptUint(b []byte, num protowire.Number, v *uint64) []byte {
	if v == nil {
		return b
	}

	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, *v)
}

func appendOptUint32(b []byte, num protowire.Number, v *uint32) []byte {
	if v == nil {
		return b
	}

	u := uint64(*v)
	return appendOptUint(b, num, &u)
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}

	return appendOptBool(b, num, &v)
}

func appendOptBool(b []byte, num protowire.Number, v *bool) []byte {
	if v == nil {
		return b
	}

	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(*v))
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	if v == 0 {
		return b
	}

	return appendOptDouble(b, num, &v)
}

func appendOptDouble(b []byte, num protowire.Number, v *float64) []byte {
	if v == nil {
		return b
	}

	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(*v))
}

func appendMessage(b []byte, num protowire.Number, m message) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.marshal(nil))
}

func consumeString(typ protowire.Type, b []byte, dst *string) int {
	if typ != protowire.BytesType {
		return 0
	}

	v, n := protowire.ConsumeString(b)
	if n > 0 {
		*dst = v
	}

	return n
}

func consumeOptString(typ protowire.Type, b []byte, dst **string) int {
	var s string
	n := consumeString(typ, b, &s)
	if n > 0 {
		*dst = &s
	}

	return n
}

func consumeBytes(typ protowire.Type, b []byte, dst *[]byte) int {
	if typ != protowire.BytesType {
		return 0
	}

	v, n := protowire.ConsumeBytes(b)
	if n > 0 {
		*dst = append([]byte{}, v...)
	}

	return n
}

func consumeUint(typ protowire.Type, b []byte, dst *uint64) int {
	if typ != protowire.VarintType {
		return 0
	}

	v, n := protowire.ConsumeVarint(b)
	if n > 0 {
		*dst = v
	}

	return n
}

func consumeOptUint(typ protowire.Type, b []byte, dst **uint64) int {
	var u uint64
	n := consumeUint(typ, b, &u)
	if n > 0 {
		*dst = &u
	}

	return n
}

func consumeUint32(typ protowire.Type, b []byte, dst *uint32) int {
	var u uint64
	n := consumeUint(typ, b, &u)
	if n > 0 {
		*dst = uint32(u)
	}

	return n
}

func consumeOptUint32(typ protowire.Type, b []byte, dst **uint32) int {
	var u uint32
	n := consumeUint32(typ, b, &u)
	if n > 0 {
		*dst = &u
	}

	return n
}

func consumeBool(typ protowire.Type, b []byte, dst *bool) int {
	var u uint64
	n := consumeUint(typ, b, &u)
	if n > 0 {
		*dst = protowire.DecodeBool(u)
	}

	return n
}

func consumeOptBool(typ protowire.Type, b []byte, dst **bool) int {
	var v bool
	n := consumeBool(typ, b, &v)
	if n > 0 {
		*dst = &v
	}

	return n
}

func consumeDouble(typ protowire.Type, b []byte, dst *float64) int {
	if typ != protowire.Fixed64Type {
		return 0
	}

	v, n := protowire.ConsumeFixed64(b)
	if n > 0 {
		*dst = math.Float64frombits(v)
	}

	return n
}

func consumeOptDouble(typ protowire.Type, b []byte, dst **float64) int {
	var v float64
	n := consumeDouble(typ, b, &v)
	if n > 0 {
		*dst = &v
	}

	return n
}

func consumeMessage(typ protowire.Type, b []byte, m message) (int, error) {
	if typ != protowire.BytesType {
		return 0, nil
	}

	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return n, nil
	}

	return n, m.unmarshal(v)
}
