package eclair

import (
	"net/url"

	"github.com/lncm/una/common"
)

type Config struct {
	URL      *url.URL
	Username string
	Password string
}

type configFields struct {
	URL      string `toml:"url" validate:"required,url"`
	Username string `toml:"username" validate:"required"`
	Password string `toml:"password" validate:"required"`
}

func NewConfig(conf common.NodeConfig) (c Config, err error) {
	fields := configFields{
		URL:      conf.URL,
		Username: conf.Username,
		Password: conf.Password,
	}

	if err = common.ValidateFields(fields); err != nil {
		return Config{}, err
	}

	c.URL, err = url.Parse(fields.URL)
	if err != nil {
		return Config{}, common.NewInvalidField("url", err)
	}

	c.Username = fields.Username
	c.Password = fields.Password

	return c, nil
}
