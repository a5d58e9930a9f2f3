package cLightning

import (
	"net/url"

	"github.com/lncm/una/common"
)

// Config is the validated CLN-gRPC configuration. All certificates are PEM,
// already decoded from hex.
type Config struct {
	URL                  *url.URL
	TLSCertificate       []byte
	TLSClientCertificate []byte
	TLSClientKey         []byte
}

type configFields struct {
	URL                  string `toml:"url" validate:"required,url"`
	TLSCertificate       string `toml:"tls_certificate" validate:"required,hexbytes"`
	TLSClientCertificate string `toml:"tls_client_certificate" validate:"required,hexbytes"`
	TLSClientKey         string `toml:"tls_client_key" validate:"required,hexbytes"`
}

func NewConfig(conf common.NodeConfig) (c Config, err error) {
	fields := configFields{
		URL:                  conf.URL,
		TLSCertificate:       conf.TLSCertificate,
		TLSClientCertificate: conf.TLSClientCertificate,
		TLSClientKey:         conf.TLSClientKey,
	}

	if err = common.ValidateFields(fields); err != nil {
		return Config{}, err
	}

	c.URL, err = url.Parse(fields.URL)
	if err != nil || c.URL.Host == "" {
		return Config{}, common.NewInvalidField("url", err)
	}

	if c.TLSCertificate, err = common.DecodeHex("tls_certificate", fields.TLSCertificate); err != nil {
		return Config{}, err
	}

	if c.TLSClientCertificate, err = common.DecodeHex("tls_client_certificate", fields.TLSClientCertificate); err != nil {
		return Config{}, err
	}

	if c.TLSClientKey, err = common.DecodeHex("tls_client_key", fields.TLSClientKey); err != nil {
		return Config{}, err
	}

	return c, nil
}
