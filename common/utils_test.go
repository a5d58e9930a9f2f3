package common

import (
	"encoding/json"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBackend(t *testing.T) {
	tests := map[string]Backend{
		"LndRest":    BackendLndRest,
		"lnd-rest":   BackendLndRest,
		"LND-REST":   BackendLndRest,
		"LndGrpc":    BackendLndGrpc,
		"cln-grpc":   BackendClnGrpc,
		"EclairRest": BackendEclairRest,
		"eclair":     BackendInvalid,
		"":           BackendInvalid,
		"Invalid":    BackendInvalid,
	}

	for in, want := range tests {
		assert.Equal(t, want, ParseBackend(in), in)
	}

	assert.Equal(t, "InvalidBackend", Backend(99).String())
}

func TestBackendJSON(t *testing.T) {
	b, err := json.Marshal(NodeInfo{Backend: BackendClnGrpc})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"backend":"ClnGrpc"`)

	var info NodeInfo
	require.NoError(t, json.Unmarshal(b, &info))
	assert.Equal(t, BackendClnGrpc, info.Backend)
}

func TestAmounts(t *testing.T) {
	assert.Equal(t, uint64(1500), AmountMsat(1, 1500))
	assert.Equal(t, uint64(2000), AmountMsat(2, 0))
	assert.Equal(t, uint64(0), AmountMsat(0, 0))

	assert.Equal(t, uint64(1), MsatToSat(1999))
	assert.Equal(t, uint64(3000), SatToMsat(3))

	v, err := ToUint64("fee", 42)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)

	_, err = ToUint64("fee", -1)
	assert.Equal(t, KindConversion, KindOf(err))
}

func TestParseNetwork(t *testing.T) {
	assert.Equal(t, NetworkMainnet, ParseNetwork("bitcoin"))
	assert.Equal(t, NetworkMainnet, ParseNetwork("mainnet"))
	assert.Equal(t, NetworkTestnet, ParseNetwork("testnet"))
	assert.Equal(t, NetworkRegtest, ParseNetwork("regtest"))

	signet := ParseNetwork("signet")
	assert.Equal(t, Network("signet"), signet)
	assert.False(t, signet.IsKnown())
}

func TestFormatRoutes(t *testing.T) {
	routes := FormatRoutes(gin.RoutesInfo{
		{Method: "GET", Path: "/api/info", Handler: "main.info"},
		{Method: "POST", Path: "/api/pay", Handler: "main.pay"},
	})

	assert.Equal(t, []string{
		"GET  /api/info -> main.info",
		"POST /api/pay  -> main.pay",
	}, routes)
}
