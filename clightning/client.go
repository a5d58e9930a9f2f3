package cLightning

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"regexp"
	"strconv"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/status"

	"github.com/lncm/una/clightning/clnrpc"
	"github.com/lncm/una/common"
)

const (
	ClientName = "clightning"

	// cln-grpc certificates are issued for this name whatever the host.
	TLSServerName = "cln"
)

// cln-grpc wraps lightningd's JSON-RPC error into the status message as
// `RpcError { code: Some(..), message: "..", data: .. }`.
var rpcErrorMessage = regexp.MustCompile(`message: "((?:[^"\\]|\\.)*)"`)

type CLightning struct {
	conn *grpc.ClientConn
	node clnrpc.NodeClient
}

func New(conf Config) (cln CLightning, err error) {
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(conf.TLSCertificate) {
		return cln, common.NewInvalidField("tls_certificate", nil)
	}

	identity, err := tls.X509KeyPair(conf.TLSClientCertificate, conf.TLSClientKey)
	if err != nil {
		return cln, common.NewInvalidField("tls_client_certificate", err)
	}

	transportCredentials := credentials.NewTLS(&tls.Config{
		Certificates: []tls.Certificate{identity},
		RootCAs:      pool,
		ServerName:   TLSServerName,
		MinVersion:   tls.VersionTLS12,
	})

	// NewClient doesn't dial; the connection is established on first use.
	conn, err := grpc.NewClient(conf.URL.Host, grpc.WithTransportCredentials(transportCredentials))
	if err != nil {
		return cln, common.NewInvalidField("url", err)
	}

	log.WithField("host", conf.URL.Host).Debug("cln client ready")

	return CLightning{
		conn: conn,
		node: clnrpc.NewNodeClient(conn),
	}, nil
}

func (cln CLightning) GetInfo(ctx context.Context) (common.NodeInfo, error) {
	log.WithField("method", clnrpc.Node_Getinfo_FullMethodName).Debug("sending request")

	res, err := cln.node.Getinfo(ctx, &clnrpc.GetinfoRequest{})
	if err != nil {
		return common.NodeInfo{}, wrapError(err)
	}

	return toNodeInfo(res), nil
}

func (cln CLightning) CreateInvoice(ctx context.Context, params common.CreateInvoiceParams) (common.CreateInvoiceResult, error) {
	req, err := newInvoiceRequest(params)
	if err != nil {
		return common.CreateInvoiceResult{}, err
	}

	log.WithField("method", clnrpc.Node_Invoice_FullMethodName).Debug("sending request")

	res, err := cln.node.Invoice(ctx, req)
	if err != nil {
		return common.CreateInvoiceResult{}, wrapError(err)
	}

	return toCreateInvoiceResult(res, req.Label), nil
}

func (cln CLightning) PayInvoice(ctx context.Context, params common.PayInvoiceParams) (common.PayInvoiceResult, error) {
	log.WithField("method", clnrpc.Node_Pay_FullMethodName).Debug("sending request")

	res, err := cln.node.Pay(ctx, newPayRequest(params))
	if err != nil {
		return common.PayInvoiceResult{}, wrapError(err)
	}

	return toPayInvoiceResult(res)
}

func (cln CLightning) GetInvoice(ctx context.Context, paymentHash string) (common.Invoice, error) {
	hash, err := hex.DecodeString(paymentHash)
	if err != nil {
		return common.Invoice{}, common.NewConversionError(err, "payment hash must be hex")
	}

	log.WithField("method", clnrpc.Node_ListInvoices_FullMethodName).Debug("sending request")

	res, err := cln.node.ListInvoices(ctx, &clnrpc.ListinvoicesRequest{PaymentHash: hash})
	if err != nil {
		return common.Invoice{}, wrapError(err)
	}

	if len(res.Invoices) == 0 {
		return common.Invoice{}, common.NewApiError("invoice not found")
	}

	return toInvoice(res.Invoices[0])
}

// DecodeInvoice parses the invoice locally; cln-grpc has no decode call.
func (cln CLightning) DecodeInvoice(ctx context.Context, bolt11 string) (common.DecodeInvoiceResult, error) {
	if err := ctx.Err(); err != nil {
		return common.DecodeInvoiceResult{}, common.NewConnectionError(err)
	}

	return decodeBolt11(bolt11)
}

func (cln CLightning) Close() error {
	return cln.conn.Close()
}

func wrapError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return common.NewConnectionError(err)
	}

	switch st.Code() {
	case codes.Unavailable, codes.Canceled:
		return &common.Error{Kind: common.KindConnection, Message: st.Message(), Err: err}

	case codes.DeadlineExceeded:
		return &common.Error{Kind: common.KindConnection, Timeout: true, Err: err}

	case codes.Unauthenticated, codes.PermissionDenied:
		return &common.Error{Kind: common.KindUnauthorized, Message: st.Message(), Err: err}

	default:
		return common.NewApiError(rpcMessage(st.Message()))
	}
}

func rpcMessage(msg string) string {
	m := rpcErrorMessage.FindStringSubmatch(msg)
	if m == nil {
		return msg
	}

	unquoted, err := strconv.Unquote(`"` + m[1] + `"`)
	if err != nil {
		return m[1]
	}

	return unquoted
}
