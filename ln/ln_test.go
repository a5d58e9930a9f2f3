package ln

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/lncm/una/common"
)

const hexCert = "2d2d2d2d2d424547494e"

func TestNewConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		backend common.Backend
		conf    common.NodeConfig
		want    *common.Error
	}{
		{
			name:    "lnd missing url",
			backend: common.BackendLndRest,
			conf:    common.NodeConfig{},
			want:    common.NewMissingField("url"),
		},
		{
			name:    "lnd macaroon not hex",
			backend: common.BackendLndRest,
			conf:    common.NodeConfig{URL: "https://localhost:8080", Macaroon: "zz", TLSCertificate: hexCert},
			want:    common.NewParsingHexError("macaroon"),
		},
		{
			name:    "lnd macaroon not a macaroon",
			backend: common.BackendLndRest,
			conf:    common.NodeConfig{URL: "https://localhost:8080", Macaroon: "00", TLSCertificate: hexCert},
			want:    &common.Error{Kind: common.KindConfig, ConfigKind: common.InvalidField, Field: "macaroon"},
		},
		{
			name:    "cln missing client key",
			backend: common.BackendClnGrpc,
			conf:    common.NodeConfig{URL: "https://localhost:9736", TLSCertificate: hexCert, TLSClientCertificate: hexCert},
			want:    common.NewMissingField("tls_client_key"),
		},
		{
			name:    "eclair bad url",
			backend: common.BackendEclairRest,
			conf:    common.NodeConfig{URL: "not-a-url", Username: "u", Password: "p"},
			want:    &common.Error{Kind: common.KindConfig, ConfigKind: common.InvalidField, Field: "url"},
		},
		{
			name:    "eclair missing password",
			backend: common.BackendEclairRest,
			conf:    common.NodeConfig{URL: "http://localhost:8080", Username: "u"},
			want:    common.NewMissingField("password"),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			node, err := New(test.backend, test.conf)
			require.Error(t, err)
			assert.Nil(t, node)
			assert.True(t, errors.Is(err, test.want), "got %v", err)
			assert.Equal(t, common.KindConfig, common.KindOf(err))
		})
	}
}

func TestNewInvalidBackend(t *testing.T) {
	conf := common.NodeConfig{URL: "http://localhost:8080", Username: "u", Password: "p"}

	_, err := New(common.BackendInvalid, conf)
	assert.Equal(t, common.KindInvalidBackend, common.KindOf(err))

	_, err = New(common.Backend(42), conf)
	assert.Equal(t, common.KindInvalidBackend, common.KindOf(err))
}

func TestNewLndGrpcNotImplemented(t *testing.T) {
	_, err := New(common.BackendLndGrpc, common.NodeConfig{URL: "https://localhost:10009"})
	require.Error(t, err)

	assert.Equal(t, common.KindInvalidBackend, common.KindOf(err))
	assert.True(t, errors.Is(err, common.ErrNotImplemented))
}

func newEclairServer(t *testing.T, network string, calls *int32) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/getinfo":
			_, _ = w.Write([]byte(`{"version":"0.9.0","nodeId":"02abc","alias":"eclair","network":"` + network + `","blockHeight":101}`))
		case "/channels":
			_, _ = w.Write([]byte(`[{"state":"NORMAL"},{"state":"OFFLINE"},{"state":"WAIT_FOR_FUNDING_CONFIRMED"},{"state":"CLOSING"}]`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"boom"}`))
		}
	}))
	t.Cleanup(srv.Close)

	return srv
}

func newEclairNode(t *testing.T, url string) *Node {
	t.Helper()

	node, err := New(common.BackendEclairRest, common.NodeConfig{URL: url, Username: "eclair", Password: "hunter2"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = node.Close() })

	return node
}

func TestGetInfoThroughNode(t *testing.T) {
	tests := []struct {
		network string
		want    common.Network
	}{
		{"regtest", common.NetworkRegtest},
		{"mainnet", common.NetworkMainnet},
		{"signet", common.Network("signet")},
	}

	for _, test := range tests {
		t.Run(test.network, func(t *testing.T) {
			srv := newEclairServer(t, test.network, nil)
			node := newEclairNode(t, srv.URL)

			info, err := node.GetInfo(context.Background())
			require.NoError(t, err)

			assert.Equal(t, common.BackendEclairRest, info.Backend)
			assert.Equal(t, test.want, info.Network)
			assert.Equal(t, test.want.IsKnown(), info.Network.IsKnown())
			assert.Equal(t, "02abc", info.NodePubkey)
			assert.Equal(t, common.ChannelStats{Active: 1, Inactive: 1, Pending: 1}, info.Channels)
		})
	}
}

func TestNodeSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	srv := newEclairServer(t, "regtest", nil)
	node := newEclairNode(t, srv.URL)

	_, err := node.GetInfo(context.Background())
	require.NoError(t, err)

	_, err = node.DecodeInvoice(context.Background(), "lnbcrt1garbage")
	require.Error(t, err)
	assert.Equal(t, common.KindApi, common.KindOf(err))

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "GetInfo", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	assert.Equal(t, "DecodeInvoice", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "boom", spans[1].Status().Description)
}

func TestWatchStopsWithContext(t *testing.T) {
	var calls int32
	srv := newEclairServer(t, "regtest", &calls)
	node := newEclairNode(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		node.Watch(ctx, 10*time.Millisecond)
		close(done)
	}()

	// each poll is getinfo + channels
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 4 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestSetupTracing(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	shutdown, err := SetupTracing("", nil)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	shutdown, err = SetupTracing("stdout", io.Discard)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	_, err = SetupTracing("jaeger", nil)
	assert.Error(t, err)
}

func TestWatchNonPositiveInterval(t *testing.T) {
	var calls int32
	srv := newEclairServer(t, "regtest", &calls)
	node := newEclairNode(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		node.Watch(ctx, 0)
		close(done)
	}()

	// the first poll runs before waiting on the ticker
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
