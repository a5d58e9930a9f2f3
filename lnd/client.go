package lnd

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/lightningnetwork/lnd/lnrpc"
	log "github.com/sirupsen/logrus"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/lncm/una/common"
)

const (
	ClientName = "lnd"

	MacaroonHeader = "Grpc-Metadata-macaroon"
)

var (
	marshaler   = protojson.MarshalOptions{UseProtoNames: true}
	unmarshaler = protojson.UnmarshalOptions{DiscardUnknown: true}
)

// Lnd talks to lnd's REST proxy. Request and response bodies are the JSON
// form of lnd's own RPC messages.
type Lnd struct {
	rest common.RestClient
}

type apiError struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

func decodeError(body []byte) (string, error) {
	var e apiError
	if err := json.Unmarshal(body, &e); err != nil {
		return "", err
	}

	return e.Message, nil
}

func New(conf Config) (lnd Lnd, err error) {
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(conf.TLSCertificate) {
		return lnd, common.NewInvalidField("tls_certificate", nil)
	}

	header := http.Header{}
	header.Set(MacaroonHeader, hex.EncodeToString(conf.Macaroon))

	lnd.rest = common.RestClient{
		Backend: common.BackendLndRest,
		URL:     conf.URL,
		Client: &http.Client{
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12},
			},
		},
		Header:      header,
		DecodeError: decodeError,
	}

	log.WithField("url", conf.URL.Redacted()).Debug("lnd client ready")

	return lnd, nil
}

func (lnd Lnd) call(ctx context.Context, method, path string, req, res proto.Message) error {
	var body io.Reader
	if req != nil {
		b, err := marshaler.Marshal(req)
		if err != nil {
			return common.NewConversionError(err, "can't encode lnd request")
		}

		body = bytes.NewReader(b)
	}

	resBytes, err := lnd.rest.Do(ctx, method, path, body, "application/json")
	if err != nil {
		return err
	}

	if err := unmarshaler.Unmarshal(resBytes, res); err != nil {
		return common.NewConversionError(err, "can't decode lnd response for "+path)
	}

	return nil
}

func (lnd Lnd) GetInfo(ctx context.Context) (common.NodeInfo, error) {
	var res lnrpc.GetInfoResponse
	if err := lnd.call(ctx, http.MethodGet, "v1/getinfo", nil, &res); err != nil {
		return common.NodeInfo{}, err
	}

	return toNodeInfo(&res), nil
}

func (lnd Lnd) CreateInvoice(ctx context.Context, params common.CreateInvoiceParams) (common.CreateInvoiceResult, error) {
	req, err := newInvoiceRequest(params)
	if err != nil {
		return common.CreateInvoiceResult{}, err
	}

	var res lnrpc.AddInvoiceResponse
	if err := lnd.call(ctx, http.MethodPost, "v1/invoices", req, &res); err != nil {
		return common.CreateInvoiceResult{}, err
	}

	return toCreateInvoiceResult(&res), nil
}

func (lnd Lnd) PayInvoice(ctx context.Context, params common.PayInvoiceParams) (common.PayInvoiceResult, error) {
	var res lnrpc.SendResponse
	if err := lnd.call(ctx, http.MethodPost, "v1/channels/transactions", newSendRequest(params), &res); err != nil {
		return common.PayInvoiceResult{}, err
	}

	return toPayInvoiceResult(&res)
}

func (lnd Lnd) GetInvoice(ctx context.Context, paymentHash string) (common.Invoice, error) {
	if _, err := hex.DecodeString(paymentHash); err != nil {
		return common.Invoice{}, common.NewConversionError(err, "payment hash must be hex")
	}

	var res lnrpc.Invoice
	if err := lnd.call(ctx, http.MethodGet, "v1/invoice/"+paymentHash, nil, &res); err != nil {
		return common.Invoice{}, err
	}

	return toInvoice(&res)
}

func (lnd Lnd) DecodeInvoice(ctx context.Context, bolt11 string) (common.DecodeInvoiceResult, error) {
	var res lnrpc.PayReq
	if err := lnd.call(ctx, http.MethodGet, "v1/payreq/"+bolt11, nil, &res); err != nil {
		return common.DecodeInvoiceResult{}, err
	}

	return toDecodeInvoiceResult(&res)
}

func (lnd Lnd) Close() error {
	lnd.rest.Close()
	return nil
}
