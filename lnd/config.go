package lnd

import (
	"net/url"

	"gopkg.in/macaroon.v2"

	"github.com/lncm/una/common"
)

// Config is the validated LND-REST configuration; credentials are already
// decoded from hex.
type Config struct {
	URL            *url.URL
	Macaroon       []byte
	TLSCertificate []byte
}

type configFields struct {
	URL            string `toml:"url" validate:"required,url"`
	Macaroon       string `toml:"macaroon" validate:"required,hexbytes"`
	TLSCertificate string `toml:"tls_certificate" validate:"required,hexbytes"`
}

func NewConfig(conf common.NodeConfig) (c Config, err error) {
	fields := configFields{
		URL:            conf.URL,
		Macaroon:       conf.Macaroon,
		TLSCertificate: conf.TLSCertificate,
	}

	if err = common.ValidateFields(fields); err != nil {
		return Config{}, err
	}

	c.URL, err = url.Parse(fields.URL)
	if err != nil {
		return Config{}, common.NewInvalidField("url", err)
	}

	c.Macaroon, err = common.DecodeHex("macaroon", fields.Macaroon)
	if err != nil {
		return Config{}, err
	}

	mac := &macaroon.Macaroon{}
	if err = mac.UnmarshalBinary(c.Macaroon); err != nil {
		return Config{}, common.NewInvalidField("macaroon", err)
	}

	c.TLSCertificate, err = common.DecodeHex("tls_certificate", fields.TLSCertificate)
	if err != nil {
		return Config{}, err
	}

	return c, nil
}
