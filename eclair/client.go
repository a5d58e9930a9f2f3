package eclair

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/lncm/una/common"
)

const ClientName = "eclair"

// Eclair talks to Eclair's REST API: form-encoded POSTs, JSON responses,
// HTTP basic auth on every call.
type Eclair struct {
	rest common.RestClient
}

func New(conf Config) (eclair Eclair, err error) {
	header := http.Header{}
	header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(conf.Username+":"+conf.Password)))

	eclair.rest = common.RestClient{
		Backend:     common.BackendEclairRest,
		URL:         conf.URL,
		Client:      &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()},
		Header:      header,
		DecodeError: decodeError,
	}

	log.WithField("url", conf.URL.Redacted()).Debug("eclair client ready")

	return eclair, nil
}

func (eclair Eclair) post(ctx context.Context, path string, form url.Values, res interface{}) error {
	body, err := eclair.rest.Do(ctx, http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, res); err != nil {
		return common.NewConversionError(err, "can't decode eclair response for "+path)
	}

	return nil
}

func (eclair Eclair) GetInfo(ctx context.Context) (common.NodeInfo, error) {
	var info infoResponse
	if err := eclair.post(ctx, "getinfo", url.Values{}, &info); err != nil {
		return common.NodeInfo{}, err
	}

	var channels []channel
	if err := eclair.post(ctx, "channels", url.Values{}, &channels); err != nil {
		return common.NodeInfo{}, err
	}

	return toNodeInfo(info, channels), nil
}

func (eclair Eclair) CreateInvoice(ctx context.Context, params common.CreateInvoiceParams) (common.CreateInvoiceResult, error) {
	var res createInvoiceResponse
	if err := eclair.post(ctx, "createinvoice", newInvoiceForm(params), &res); err != nil {
		return common.CreateInvoiceResult{}, err
	}

	return toCreateInvoiceResult(res), nil
}

func (eclair Eclair) PayInvoice(ctx context.Context, params common.PayInvoiceParams) (common.PayInvoiceResult, error) {
	var ev paymentEvent
	if err := eclair.post(ctx, "payinvoice", newPayForm(params), &ev); err != nil {
		return common.PayInvoiceResult{}, err
	}

	return toPayInvoiceResult(ev)
}

func (eclair Eclair) GetInvoice(ctx context.Context, paymentHash string) (common.Invoice, error) {
	if _, err := hex.DecodeString(paymentHash); err != nil {
		return common.Invoice{}, common.NewConversionError(err, "payment hash must be hex")
	}

	var res receivedInfo
	if err := eclair.post(ctx, "getreceivedinfo", url.Values{"paymentHash": {paymentHash}}, &res); err != nil {
		return common.Invoice{}, err
	}

	return toInvoice(res), nil
}

func (eclair Eclair) DecodeInvoice(ctx context.Context, bolt11 string) (common.DecodeInvoiceResult, error) {
	var res paymentRequest
	if err := eclair.post(ctx, "parseinvoice", url.Values{"invoice": {bolt11}}, &res); err != nil {
		return common.DecodeInvoiceResult{}, err
	}

	return toDecodeInvoiceResult(res)
}

func (eclair Eclair) Close() error {
	eclair.rest.Close()
	return nil
}
