package common

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"golang.org/x/xerrors"
)

const (
	DefaultConfigFile = "~/.lncm/una.conf"
	DefaultLogFile    = "~/.lncm/una.log"
)

type (
	// NodeConfig carries every field any backend may need. Each backend
	// validates only the subset it requires and ignores the rest.
	NodeConfig struct {
		URL                  string `toml:"url" json:"url,omitempty"`
		Macaroon             string `toml:"macaroon" json:"macaroon,omitempty"`
		TLSCertificate       string `toml:"tls_certificate" json:"tls_certificate,omitempty"`
		TLSClientCertificate string `toml:"tls_client_certificate" json:"tls_client_certificate,omitempty"`
		TLSClientKey         string `toml:"tls_client_key" json:"tls_client_key,omitempty"`
		Username             string `toml:"username" json:"username,omitempty"`
		Password             string `toml:"password" json:"password,omitempty"`
	}

	// Config is the TOML file shared by the gateway and the CLI. Backend is
	// parsed with ParseBackend. Trace names a span exporter ("stdout"), empty
	// disables tracing.
	Config struct {
		Port      int64             `toml:"port"`
		LogFile   string            `toml:"log-file"`
		RateLimit float64           `toml:"rate-limit"`
		Trace     string            `toml:"trace"`
		Backend   string            `toml:"backend"`
		Node      NodeConfig        `toml:"node"`
		Users     map[string]string `toml:"users"`
	}
)

// String never prints credentials.
func (c NodeConfig) String() string {
	set := func(s string) string {
		if s == "" {
			return "-"
		}

		return "set"
	}

	return fmt.Sprintf(
		"url=%s macaroon=%s tls_certificate=%s tls_client_certificate=%s tls_client_key=%s username=%s password=%s",
		c.URL, set(c.Macaroon), set(c.TLSCertificate), set(c.TLSClientCertificate), set(c.TLSClientKey), set(c.Username), set(c.Password),
	)
}

func CleanAndExpandPath(path string) string {
	if path == "" {
		return ""
	}

	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		var homeDir string
		u, err := user.Current()
		if err == nil {
			homeDir = u.HomeDir
		} else {
			homeDir = os.Getenv("HOME")
		}

		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

// LoadConfig reads a TOML config file; path may start with `~` and contain
// environment variables.
func LoadConfig(path string) (conf Config, err error) {
	configFile, err := toml.LoadFile(CleanAndExpandPath(path))
	if err != nil {
		return conf, xerrors.Errorf("unable to load %s:\n\t%w", path, err)
	}

	err = configFile.Unmarshal(&conf)
	if err != nil {
		return conf, xerrors.Errorf("unable to process %s:\n\t%w", path, err)
	}

	return conf, nil
}
