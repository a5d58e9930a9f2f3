package cLightning

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lncm/una/clightning/clnrpc"
	"github.com/lncm/una/common"
)

func validNodeConfig() common.NodeConfig {
	return common.NodeConfig{
		URL:                  "https://127.0.0.1:9736",
		TLSCertificate:       hex.EncodeToString([]byte("ca")),
		TLSClientCertificate: hex.EncodeToString([]byte("cert")),
		TLSClientKey:         hex.EncodeToString([]byte("key")),
	}
}

func TestNewConfig(t *testing.T) {
	conf, err := NewConfig(validNodeConfig())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9736", conf.URL.Host)
	assert.Equal(t, []byte("ca"), conf.TLSCertificate)
	assert.Equal(t, []byte("cert"), conf.TLSClientCertificate)
	assert.Equal(t, []byte("key"), conf.TLSClientKey)
}

func TestNewConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*common.NodeConfig)
		kind   common.ConfigKind
		field  string
	}{
		{"no url", func(c *common.NodeConfig) { c.URL = "" }, common.MissingField, "url"},
		{"bad url", func(c *common.NodeConfig) { c.URL = "not-a-url" }, common.InvalidField, "url"},
		{"no client key", func(c *common.NodeConfig) { c.TLSClientKey = "" }, common.MissingField, "tls_client_key"},
		{"ca not hex", func(c *common.NodeConfig) { c.TLSCertificate = "zz" }, common.ParsingHexError, "tls_certificate"},
		{"cert not hex", func(c *common.NodeConfig) { c.TLSClientCertificate = "abc" }, common.ParsingHexError, "tls_client_certificate"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			nc := validNodeConfig()
			test.modify(&nc)

			_, err := NewConfig(nc)
			assert.ErrorIs(t, err, &common.Error{Kind: common.KindConfig, ConfigKind: test.kind, Field: test.field})
		})
	}
}

// Macaroons and basic-auth fields are not CLN's concern.
func TestNewConfigIgnoresOtherBackends(t *testing.T) {
	nc := validNodeConfig()
	nc.Macaroon = "not hex"
	nc.Username = "eclair"

	_, err := NewConfig(nc)
	assert.NoError(t, err)
}

func TestToNodeInfoNetworks(t *testing.T) {
	for network, want := range map[string]common.Network{
		"bitcoin": common.NetworkMainnet,
		"testnet": common.NetworkTestnet,
		"regtest": common.NetworkRegtest,
		"signet":  common.Network("signet"),
	} {
		info := toNodeInfo(&clnrpc.GetinfoResponse{Network: network})
		assert.Equal(t, want, info.Network, network)
	}
}

func TestToPayInvoiceResult(t *testing.T) {
	res, err := toPayInvoiceResult(&clnrpc.PayResponse{PaymentHash: []byte{1}})
	require.NoError(t, err)
	assert.Nil(t, res.FeesMsat)

	_, err = toPayInvoiceResult(&clnrpc.PayResponse{
		AmountMsat:     &clnrpc.Amount{Msat: 10},
		AmountSentMsat: &clnrpc.Amount{Msat: 9},
	})
	assert.Equal(t, common.KindConversion, common.KindOf(err))

	_, err = toPayInvoiceResult(&clnrpc.PayResponse{Status: clnrpc.PayResponse_FAILED})
	assert.Equal(t, common.KindApi, common.KindOf(err))
}

func TestNewInvoiceRequestRejectsDescriptionHash(t *testing.T) {
	_, err := newInvoiceRequest(common.CreateInvoiceParams{DescriptionHash: "00"})
	assert.Equal(t, common.KindNotImplemented, common.KindOf(err))

	_, err = newInvoiceRequest(common.CreateInvoiceParams{PaymentPreimage: "xyz"})
	assert.Equal(t, common.KindConversion, common.KindOf(err))
}
