package eclair

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/pkg/errors"

	"github.com/lncm/una/common"
)

const (
	paymentSent   = "payment-sent"
	paymentFailed = "payment-failed"

	noFailureMessage = "error paying invoice, couldn't extract error message"
)

type apiError struct {
	Error string `json:"error"`
}

func decodeError(body []byte) (string, error) {
	var e apiError
	if err := json.Unmarshal(body, &e); err != nil {
		return "", err
	}

	return e.Error, nil
}

// timestamp accepts both encodings Eclair has used: a bare unix number and
// {"iso": "...", "unix": n}.
type timestamp int64

func (t *timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var obj struct {
			Unix int64 `json:"unix"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}

		*t = timestamp(obj.Unix)
		return nil
	}

	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}

	*t = timestamp(n)
	return nil
}

type (
	infoResponse struct {
		Version     string `json:"version"`
		NodeID      string `json:"nodeId"`
		Alias       string `json:"alias"`
		Network     string `json:"network"`
		BlockHeight int64  `json:"blockHeight"`
	}

	channel struct {
		NodeID    string `json:"nodeId"`
		ChannelID string `json:"channelId"`
		State     string `json:"state"`
	}

	createInvoiceResponse struct {
		Serialized  string `json:"serialized"`
		PaymentHash string `json:"paymentHash"`
		Description string `json:"description"`
	}

	features struct {
		Activated map[string]string `json:"activated"`
	}

	hopHint struct {
		NodeID                    string `json:"nodeId"`
		ShortChannelID            string `json:"shortChannelId"`
		FeeBase                   uint32 `json:"feeBase"`
		FeeProportionalMillionths uint32 `json:"feeProportionalMillionths"`
		CltvExpiryDelta           uint32 `json:"cltvExpiryDelta"`
	}

	paymentRequest struct {
		Prefix             string      `json:"prefix"`
		Timestamp          timestamp   `json:"timestamp"`
		NodeID             string      `json:"nodeId"`
		Serialized         string      `json:"serialized"`
		Description        *string     `json:"description"`
		DescriptionHash    string      `json:"descriptionHash"`
		PaymentHash        string      `json:"paymentHash"`
		Expiry             int64       `json:"expiry"`
		MinFinalCltvExpiry uint64      `json:"minFinalCltvExpiry"`
		Amount             *uint64     `json:"amount"`
		Features           features    `json:"features"`
		RoutingInfo        [][]hopHint `json:"routingInfo"`
	}

	receivedInfo struct {
		PaymentRequest  paymentRequest `json:"paymentRequest"`
		PaymentPreimage string         `json:"paymentPreimage"`
		CreatedAt       timestamp      `json:"createdAt"`
		Status          struct {
			Type       string     `json:"type"`
			Amount     uint64     `json:"amount"`
			ReceivedAt *timestamp `json:"receivedAt"`
		} `json:"status"`
	}

	paymentPart struct {
		ID       string `json:"id"`
		Amount   uint64 `json:"amount"`
		FeesPaid uint64 `json:"feesPaid"`
	}

	paymentFailure struct {
		Amount     uint64 `json:"amount"`
		RouteError *struct {
			OriginNode     string          `json:"originNode"`
			FailureMessage json.RawMessage `json:"failureMessage"`
		} `json:"e"`
		Error *string `json:"t"`
	}

	paymentEvent struct {
		Type            string           `json:"type"`
		ID              string           `json:"id"`
		PaymentHash     string           `json:"paymentHash"`
		PaymentPreimage string           `json:"paymentPreimage"`
		RecipientAmount uint64           `json:"recipientAmount"`
		Parts           []paymentPart    `json:"parts"`
		Failures        []paymentFailure `json:"failures"`
	}
)

func newInvoiceForm(params common.CreateInvoiceParams) url.Values {
	form := url.Values{}

	if msat := common.AmountMsat(params.Amount, params.AmountMsat); msat > 0 {
		form.Set("amountMsat", strconv.FormatUint(msat, 10))
	}

	if params.DescriptionHash != "" {
		form.Set("descriptionHash", params.DescriptionHash)
	} else {
		form.Set("description", params.Description)
	}

	expiry := uint32(common.DefaultInvoiceExpiry)
	if params.ExpireIn > 0 {
		expiry = params.ExpireIn
	}
	form.Set("expireIn", strconv.FormatUint(uint64(expiry), 10))

	if params.FallbackAddress != "" {
		form.Set("fallbackAddress", params.FallbackAddress)
	}

	if params.PaymentPreimage != "" {
		form.Set("paymentPreimage", params.PaymentPreimage)
	}

	return form
}

// Eclair has no labels; the description it echoes back stands in for one.
func toCreateInvoiceResult(res createInvoiceResponse) common.CreateInvoiceResult {
	return common.CreateInvoiceResult{
		PaymentRequest: res.Serialized,
		PaymentHash:    res.PaymentHash,
		Label:          res.Description,
	}
}

// Both fee ceilings are sent; Eclair applies its own precedence. A flat
// ceiling under one sat is left out since Eclair only takes whole sats.
func newPayForm(params common.PayInvoiceParams) url.Values {
	form := url.Values{}
	form.Set("invoice", params.PaymentRequest)
	form.Set("blocking", "true")

	if msat := common.AmountMsat(params.Amount, params.AmountMsat); msat > 0 {
		form.Set("amountMsat", strconv.FormatUint(msat, 10))
	}

	if flat := common.MsatToSat(common.AmountMsat(params.MaxFeeSat, params.MaxFeeMsat)); flat > 0 {
		form.Set("maxFeeFlatSat", strconv.FormatUint(flat, 10))
	}

	if params.MaxFeePercent > 0 {
		form.Set("maxFeePct", strconv.FormatInt(int64(math.Ceil(params.MaxFeePercent)), 10))
	}

	return form
}

func failureMessage(f paymentFailure) string {
	if f.RouteError != nil && len(f.RouteError.FailureMessage) > 0 {
		var s string
		if err := json.Unmarshal(f.RouteError.FailureMessage, &s); err == nil {
			return s
		}

		return string(f.RouteError.FailureMessage)
	}

	if f.Error != nil {
		return *f.Error
	}

	return noFailureMessage
}

// Fees are the sum of what each part paid.
func toPayInvoiceResult(ev paymentEvent) (common.PayInvoiceResult, error) {
	if ev.Type == paymentFailed {
		if len(ev.Failures) == 0 {
			return common.PayInvoiceResult{}, common.NewApiError(noFailureMessage)
		}

		return common.PayInvoiceResult{}, common.NewApiError(failureMessage(ev.Failures[0]))
	}

	if ev.Type != paymentSent {
		return common.PayInvoiceResult{}, common.NewConversionError(nil, fmt.Sprintf("unexpected payment event %q", ev.Type))
	}

	if ev.PaymentPreimage == "" {
		return common.PayInvoiceResult{}, common.NewApiError("invoice paid but missing preimage")
	}

	result := common.PayInvoiceResult{
		PaymentHash:     ev.PaymentHash,
		PaymentPreimage: ev.PaymentPreimage,
	}

	if ev.Parts != nil {
		var fees uint64
		for _, p := range ev.Parts {
			fees += p.FeesPaid
		}

		result.FeesMsat = &fees
	}

	return result, nil
}

// channelBucket sorts Eclair channel states into active, inactive and
// pending. Closing and closed channels are not counted.
func channelBucket(state string) string {
	switch {
	case state == "NORMAL":
		return "active"
	case state == "OFFLINE", state == "SYNCING":
		return "inactive"
	case strings.HasPrefix(state, "WAIT_FOR_"), state == "PENDING":
		return "pending"
	default:
		return ""
	}
}

func toNodeInfo(info infoResponse, channels []channel) common.NodeInfo {
	stats := common.ChannelStats{}
	for _, ch := range channels {
		switch channelBucket(ch.State) {
		case "active":
			stats.Active++
		case "inactive":
			stats.Inactive++
		case "pending":
			stats.Pending++
		}
	}

	return common.NodeInfo{
		Backend:    common.BackendEclairRest,
		Version:    info.Version,
		Network:    common.ParseNetwork(info.Network),
		NodePubkey: info.NodeID,
		Channels:   stats,
	}
}

func toInvoice(res receivedInfo) common.Invoice {
	pr := res.PaymentRequest

	invoice := common.Invoice{
		Bolt11:       pr.Serialized,
		PaymentHash:  pr.PaymentHash,
		Preimage:     res.PaymentPreimage,
		CreationDate: int64(res.CreatedAt),
		Expiry:       pr.Expiry,
	}

	if invoice.CreationDate == 0 {
		invoice.CreationDate = int64(pr.Timestamp)
	}

	if pr.Description != nil {
		invoice.Memo = *pr.Description
	}

	if pr.Amount != nil {
		invoice.AmountMsat = *pr.Amount
	} else {
		invoice.AmountMsat = res.Status.Amount
	}
	invoice.Amount = common.MsatToSat(invoice.AmountMsat)

	switch res.Status.Type {
	case "received":
		invoice.Status = common.InvoiceStatusSettled
		invoice.Settled = true
		if res.Status.ReceivedAt != nil {
			invoice.SettleDate = int64(*res.Status.ReceivedAt)
		}
	case "expired":
		invoice.Status = common.InvoiceStatusCancelled
	default:
		invoice.Status = common.InvoiceStatusPending
	}

	return invoice
}

// parseShortChannelID reads Eclair's "<block>x<tx>x<output>" notation.
func parseShortChannelID(s string) (uint64, error) {
	parts := strings.Split(s, "x")
	if len(parts) != 3 {
		return 0, errors.Errorf("malformed short channel id %q", s)
	}

	var nums [3]uint64
	for i, bits := range []int{24, 24, 16} {
		n, err := strconv.ParseUint(parts[i], 10, bits)
		if err != nil {
			return 0, errors.Wrapf(err, "malformed short channel id %q", s)
		}

		nums[i] = n
	}

	return lnwire.ShortChannelID{
		BlockHeight: uint32(nums[0]),
		TxIndex:     uint32(nums[1]),
		TxPosition:  uint16(nums[2]),
	}.ToUint64(), nil
}

func featureStatus(activated map[string]string, name string) common.FeatureActivationStatus {
	switch strings.ToLower(activated[name]) {
	case "mandatory":
		return common.FeatureMandatory
	case "optional":
		return common.FeatureOptional
	default:
		return common.FeatureUnknown
	}
}

func toDecodeInvoiceResult(pr paymentRequest) (common.DecodeInvoiceResult, error) {
	result := common.DecodeInvoiceResult{
		CreationDate:       int64(pr.Timestamp),
		Destination:        pr.NodeID,
		PaymentHash:        pr.PaymentHash,
		Expiry:             pr.Expiry,
		MinFinalCltvExpiry: pr.MinFinalCltvExpiry,
		RouteHints:         []common.RoutingHint{},
		Features: &common.InvoiceFeatures{
			PaymentSecret:         featureStatus(pr.Features.Activated, "payment_secret"),
			BasicMpp:              featureStatus(pr.Features.Activated, "basic_mpp"),
			OptionPaymentMetadata: featureStatus(pr.Features.Activated, "option_payment_metadata"),
			VarOnionOptin:         featureStatus(pr.Features.Activated, "var_onion_optin"),
		},
	}

	if pr.Description != nil {
		result.Memo = *pr.Description
	}

	if pr.Amount != nil {
		msat := *pr.Amount
		sat := common.MsatToSat(msat)
		result.AmountMsat = &msat
		result.Amount = &sat
	}

	for _, route := range pr.RoutingInfo {
		hint := common.RoutingHint{HopHints: make([]common.HopHint, 0, len(route))}
		for _, hop := range route {
			chanID, err := parseShortChannelID(hop.ShortChannelID)
			if err != nil {
				return common.DecodeInvoiceResult{}, common.NewConversionError(err, "can't parse routing hint")
			}

			hint.HopHints = append(hint.HopHints, common.HopHint{
				NodeID:                    hop.NodeID,
				ChanID:                    chanID,
				FeeBaseMsat:               hop.FeeBase,
				FeeProportionalMillionths: hop.FeeProportionalMillionths,
				CltvExpiryDelta:           hop.CltvExpiryDelta,
			})
		}

		result.RouteHints = append(result.RouteHints, hint)
	}

	return result, nil
}
