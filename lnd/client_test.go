package lnd

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/lightningnetwork/lnd/lnrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/macaroon.v2"

	"github.com/lncm/una/common"
)

type response struct {
	status int
	body   string
}

// fakeLnd serves canned responses keyed by "METHOD /path" and keeps the last
// request body per key.
type fakeLnd struct {
	t         *testing.T
	macaroon  string
	responses map[string]response

	mu     sync.Mutex
	bodies map[string][]byte
}

func (f *fakeLnd) body(key string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.bodies[key]
}

func (f *fakeLnd) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Header.Get(MacaroonHeader) != f.macaroon {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"code":2,"message":"verification failed: signature mismatch after caveat verification","details":[]}`))
		return
	}

	key := r.Method + " " + r.URL.Path
	b, err := io.ReadAll(r.Body)
	assert.NoError(f.t, err)

	f.mu.Lock()
	f.bodies[key] = b
	f.mu.Unlock()

	res, ok := f.responses[key]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.WriteHeader(res.status)
	_, _ = w.Write([]byte(res.body))
}

func testMacaroon(t *testing.T) []byte {
	t.Helper()

	mac, err := macaroon.New([]byte("root-key"), []byte("id"), "lnd", macaroon.LatestVersion)
	require.NoError(t, err)

	b, err := mac.MarshalBinary()
	require.NoError(t, err)

	return b
}

func certHex(srv *httptest.Server) string {
	return hex.EncodeToString(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw}))
}

func newTestLnd(t *testing.T, responses map[string]response) (Lnd, *fakeLnd) {
	t.Helper()

	mac := testMacaroon(t)
	fake := &fakeLnd{t: t, macaroon: hex.EncodeToString(mac), responses: responses, bodies: map[string][]byte{}}

	srv := httptest.NewTLSServer(fake)
	t.Cleanup(srv.Close)

	conf, err := NewConfig(common.NodeConfig{
		URL:            srv.URL,
		Macaroon:       hex.EncodeToString(mac),
		TLSCertificate: certHex(srv),
	})
	require.NoError(t, err)

	lnd, err := New(conf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = lnd.Close() })

	return lnd, fake
}

func b64(s string) string {
	b, _ := hex.DecodeString(s)
	return base64.StdEncoding.EncodeToString(b)
}

const (
	testHash     = "0001020304050607080900010203040506070809000102030405060708090102"
	testPreimage = "1111111111111111111111111111111111111111111111111111111111111111"
)

func TestGetInfo(t *testing.T) {
	lnd, _ := newTestLnd(t, map[string]response{
		"GET /v1/getinfo": {200, `{
			"version": "0.18.4-beta commit=v0.18.4-beta",
			"identity_pubkey": "02abcdef",
			"num_active_channels": 3,
			"num_inactive_channels": 1,
			"num_pending_channels": 2,
			"block_height": 812,
			"chains": [{"chain": "bitcoin", "network": "regtest"}],
			"some_future_field": true
		}`},
	})

	info, err := lnd.GetInfo(context.Background())
	require.NoError(t, err)

	assert.Equal(t, common.NodeInfo{
		Backend:    common.BackendLndRest,
		Version:    "0.18.4-beta commit=v0.18.4-beta",
		Network:    common.NetworkRegtest,
		NodePubkey: "02abcdef",
		Channels:   common.ChannelStats{Active: 3, Inactive: 1, Pending: 2},
	}, info)
}

func TestCreateInvoice(t *testing.T) {
	lnd, fake := newTestLnd(t, map[string]response{
		"POST /v1/invoices": {200, `{"r_hash": "` + b64(testHash) + `", "payment_request": "lnbcrt15n1...", "add_index": "7"}`},
	})

	res, err := lnd.CreateInvoice(context.Background(), common.CreateInvoiceParams{
		Amount:      1,
		AmountMsat:  1500,
		Description: "coffee",
	})
	require.NoError(t, err)

	assert.Equal(t, common.CreateInvoiceResult{PaymentRequest: "lnbcrt15n1...", PaymentHash: testHash, Label: "7"}, res)

	var sent lnrpc.Invoice
	require.NoError(t, unmarshaler.Unmarshal(fake.body("POST /v1/invoices"), &sent))
	assert.Equal(t, "coffee", sent.GetMemo())
	assert.Equal(t, int64(1500), sent.GetValueMsat())
	assert.Equal(t, int64(common.DefaultInvoiceExpiry), sent.GetExpiry())
}

func TestCreateInvoiceBadPreimage(t *testing.T) {
	lnd, _ := newTestLnd(t, nil)

	_, err := lnd.CreateInvoice(context.Background(), common.CreateInvoiceParams{PaymentPreimage: "xyz"})
	assert.Equal(t, common.KindConversion, common.KindOf(err))
}

func TestPayInvoice(t *testing.T) {
	lnd, fake := newTestLnd(t, map[string]response{
		"POST /v1/channels/transactions": {200, `{
			"payment_error": "",
			"payment_preimage": "` + b64(testPreimage) + `",
			"payment_hash": "` + b64(testHash) + `",
			"payment_route": {"total_fees_msat": "150", "total_amt_msat": "100150"}
		}`},
	})

	res, err := lnd.PayInvoice(context.Background(), common.PayInvoiceParams{
		PaymentRequest: "lnbcrt1...",
		MaxFeeSat:      2,
		MaxFeePercent:  0.5,
	})
	require.NoError(t, err)

	assert.Equal(t, testHash, res.PaymentHash)
	assert.Equal(t, testPreimage, res.PaymentPreimage)
	require.NotNil(t, res.FeesMsat)
	assert.Equal(t, uint64(150), *res.FeesMsat)

	var sent lnrpc.SendRequest
	require.NoError(t, unmarshaler.Unmarshal(fake.body("POST /v1/channels/transactions"), &sent))
	assert.Equal(t, "lnbcrt1...", sent.GetPaymentRequest())
	assert.Equal(t, int64(2000), sent.GetFeeLimit().GetFixedMsat())
}

func TestPayInvoiceError(t *testing.T) {
	lnd, _ := newTestLnd(t, map[string]response{
		"POST /v1/channels/transactions": {200, `{"payment_error": "invoice is already paid"}`},
	})

	_, err := lnd.PayInvoice(context.Background(), common.PayInvoiceParams{PaymentRequest: "lnbcrt1..."})
	require.Error(t, err)
	assert.Equal(t, common.KindApi, common.KindOf(err))
	assert.Equal(t, "invoice is already paid", err.Error())
}

func TestGetInvoice(t *testing.T) {
	lnd, _ := newTestLnd(t, map[string]response{
		"GET /v1/invoice/" + testHash: {200, `{
			"memo": "coffee",
			"r_preimage": "` + b64(testPreimage) + `",
			"r_hash": "` + b64(testHash) + `",
			"value_msat": "1500",
			"creation_date": "1700000000",
			"settle_date": "1700000100",
			"payment_request": "lnbcrt15n1...",
			"expiry": "3600",
			"state": "SETTLED"
		}`},
	})

	inv, err := lnd.GetInvoice(context.Background(), testHash)
	require.NoError(t, err)

	assert.Equal(t, common.Invoice{
		Bolt11:       "lnbcrt15n1...",
		Memo:         "coffee",
		Amount:       1,
		AmountMsat:   1500,
		Preimage:     testPreimage,
		PaymentHash:  testHash,
		Settled:      true,
		SettleDate:   1700000100,
		CreationDate: 1700000000,
		Expiry:       3600,
		Status:       common.InvoiceStatusSettled,
	}, inv)

	_, err = lnd.GetInvoice(context.Background(), "not-hex")
	assert.Equal(t, common.KindConversion, common.KindOf(err))
}

func TestDecodeInvoice(t *testing.T) {
	lnd, _ := newTestLnd(t, map[string]response{
		"GET /v1/payreq/lnbcrt15n1xyz": {200, `{
			"destination": "03aa",
			"payment_hash": "` + testHash + `",
			"num_satoshis": "1",
			"timestamp": "1700000000",
			"expiry": "3600",
			"description": "coffee",
			"cltv_expiry": "40",
			"num_msat": "1500",
			"route_hints": [{"hop_hints": [{
				"node_id": "02bb",
				"chan_id": "123456789",
				"fee_base_msat": 1000,
				"fee_proportional_millionths": 1,
				"cltv_expiry_delta": 40
			}]}],
			"features": {
				"9": {"name": "tlv-onion", "is_required": false, "is_known": true},
				"14": {"name": "payment-addr", "is_required": true, "is_known": true},
				"17": {"name": "multi-path-payments", "is_required": false, "is_known": true}
			}
		}`},
	})

	res, err := lnd.DecodeInvoice(context.Background(), "lnbcrt15n1xyz")
	require.NoError(t, err)

	require.NotNil(t, res.AmountMsat)
	require.NotNil(t, res.Amount)
	assert.Equal(t, uint64(1500), *res.AmountMsat)
	assert.Equal(t, uint64(1), *res.Amount)
	assert.Equal(t, int64(1700000000), res.CreationDate)
	assert.Equal(t, "03aa", res.Destination)
	assert.Equal(t, "coffee", res.Memo)
	assert.Equal(t, uint64(40), res.MinFinalCltvExpiry)

	assert.Equal(t, &common.InvoiceFeatures{
		PaymentSecret:         common.FeatureMandatory,
		BasicMpp:              common.FeatureOptional,
		OptionPaymentMetadata: common.FeatureUnknown,
		VarOnionOptin:         common.FeatureOptional,
	}, res.Features)

	assert.Equal(t, []common.RoutingHint{{HopHints: []common.HopHint{{
		NodeID:                    "02bb",
		ChanID:                    123456789,
		FeeBaseMsat:               1000,
		FeeProportionalMillionths: 1,
		CltvExpiryDelta:           40,
	}}}}, res.RouteHints)
}

func TestDecodeInvoiceAnyAmount(t *testing.T) {
	lnd, _ := newTestLnd(t, map[string]response{
		"GET /v1/payreq/lnbcrt1xyz": {200, `{"payment_hash": "` + testHash + `", "timestamp": "1700000000", "expiry": "3600"}`},
	})

	res, err := lnd.DecodeInvoice(context.Background(), "lnbcrt1xyz")
	require.NoError(t, err)
	assert.Nil(t, res.Amount)
	assert.Nil(t, res.AmountMsat)
	assert.Empty(t, res.RouteHints)
}

func TestErrorStatuses(t *testing.T) {
	tests := []struct {
		name string
		res  response
		kind common.Kind
		msg  string
	}{
		{"permission denied", response{500, `{"code":2,"message":"permission denied"}`}, common.KindUnauthorized, ""},
		{"api error", response{500, `{"code":2,"message":"unable to locate invoice"}`}, common.KindApi, "unable to locate invoice"},
		{"unparseable error", response{500, `oops`}, common.KindConversion, ""},
		{"unparseable body", response{200, `{"version": 12}`}, common.KindConversion, ""},
		{"forbidden", response{403, ``}, common.KindUnauthorized, ""},
		{"bad gateway", response{502, ``}, common.KindConnection, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			lnd, _ := newTestLnd(t, map[string]response{"GET /v1/getinfo": test.res})

			_, err := lnd.GetInfo(context.Background())
			require.Error(t, err)
			assert.Equal(t, test.kind, common.KindOf(err))

			if test.msg != "" {
				assert.Equal(t, test.msg, err.Error())
			}
		})
	}
}

func TestWrongMacaroon(t *testing.T) {
	lnd, _ := newTestLnd(t, map[string]response{"GET /v1/getinfo": {200, `{}`}})
	lnd.rest.Header = http.Header{}
	lnd.rest.Header.Set(MacaroonHeader, "deadbeef")

	_, err := lnd.GetInfo(context.Background())
	require.Error(t, err)
	assert.Equal(t, common.KindApi, common.KindOf(err))
	assert.Contains(t, err.Error(), "verification failed")
}

func TestUntrustedServer(t *testing.T) {
	other := httptest.NewTLSServer(http.NotFoundHandler())
	t.Cleanup(other.Close)

	srv := httptest.NewTLSServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	conf, err := NewConfig(common.NodeConfig{
		URL:            srv.URL,
		Macaroon:       hex.EncodeToString(testMacaroon(t)),
		TLSCertificate: certHex(other),
	})
	require.NoError(t, err)

	lnd, err := New(conf)
	require.NoError(t, err)

	_, err = lnd.GetInfo(context.Background())
	require.Error(t, err)
	assert.Equal(t, common.KindConnection, common.KindOf(err))
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewTLSServer(http.NotFoundHandler())
	cert := certHex(srv)
	url := srv.URL
	srv.Close()

	conf, err := NewConfig(common.NodeConfig{URL: url, Macaroon: hex.EncodeToString(testMacaroon(t)), TLSCertificate: cert})
	require.NoError(t, err)

	lnd, err := New(conf)
	require.NoError(t, err)

	_, err = lnd.GetInfo(context.Background())
	require.Error(t, err)
	assert.Equal(t, common.KindConnection, common.KindOf(err))
}

func TestCancelledContext(t *testing.T) {
	lnd, _ := newTestLnd(t, map[string]response{"GET /v1/getinfo": {200, `{}`}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := lnd.GetInfo(ctx)
	require.Error(t, err)
	assert.Equal(t, common.KindConnection, common.KindOf(err))
}
