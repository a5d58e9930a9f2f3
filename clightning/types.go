package cLightning

import (
	"encoding/hex"

	"github.com/oklog/ulid/v2"

	"github.com/lncm/una/clightning/clnrpc"
	"github.com/lncm/una/common"
)

func newInvoiceRequest(params common.CreateInvoiceParams) (*clnrpc.InvoiceRequest, error) {
	if params.DescriptionHash != "" {
		return nil, common.NewNotImplemented("core lightning can't commit to an external description hash")
	}

	amount := &clnrpc.AmountOrAny{Any: true}
	if msat := common.AmountMsat(params.Amount, params.AmountMsat); msat > 0 {
		amount = &clnrpc.AmountOrAny{Amount: &clnrpc.Amount{Msat: msat}}
	}

	label := params.Label
	if label == "" {
		label = ulid.Make().String()
	}

	expiry := uint64(common.DefaultInvoiceExpiry)
	if params.ExpireIn > 0 {
		expiry = uint64(params.ExpireIn)
	}

	deschashonly := false
	req := &clnrpc.InvoiceRequest{
		Msatoshi:     amount,
		Description:  params.Description,
		Label:        label,
		Expiry:       &expiry,
		Deschashonly: &deschashonly,
	}

	if params.FallbackAddress != "" {
		req.Fallbacks = []string{params.FallbackAddress}
	}

	if params.CltvExpiry > 0 {
		cltv := params.CltvExpiry
		req.Cltv = &cltv
	}

	if params.PaymentPreimage != "" {
		preimage, err := hex.DecodeString(params.PaymentPreimage)
		if err != nil {
			return nil, common.NewConversionError(err, "payment_preimage must be hex")
		}

		req.Preimage = preimage
	}

	return req, nil
}

func toCreateInvoiceResult(res *clnrpc.InvoiceResponse, label string) common.CreateInvoiceResult {
	return common.CreateInvoiceResult{
		PaymentRequest: res.Bolt11,
		PaymentHash:    hex.EncodeToString(res.PaymentHash),
		Label:          label,
	}
}

func newPayRequest(params common.PayInvoiceParams) *clnrpc.PayRequest {
	req := &clnrpc.PayRequest{Bolt11: params.PaymentRequest}

	if msat := common.AmountMsat(params.Amount, params.AmountMsat); msat > 0 {
		req.Msatoshi = &clnrpc.Amount{Msat: msat}
	}

	if flat := common.AmountMsat(params.MaxFeeSat, params.MaxFeeMsat); flat > 0 {
		req.Maxfee = &clnrpc.Amount{Msat: flat}
	}

	if params.MaxFeePercent > 0 {
		pct := params.MaxFeePercent
		req.Maxfeepercent = &pct
	}

	return req
}

// Fees are what left the node on top of the invoice amount.
func toPayInvoiceResult(res *clnrpc.PayResponse) (common.PayInvoiceResult, error) {
	if res.Status == clnrpc.PayResponse_FAILED {
		return common.PayInvoiceResult{}, common.NewApiError("payment failed")
	}

	result := common.PayInvoiceResult{
		PaymentHash:     hex.EncodeToString(res.PaymentHash),
		PaymentPreimage: hex.EncodeToString(res.PaymentPreimage),
	}

	if res.AmountMsat != nil && res.AmountSentMsat != nil {
		sent, amount := res.AmountSentMsat.GetMsat(), res.AmountMsat.GetMsat()
		if sent < amount {
			return common.PayInvoiceResult{}, common.NewConversionError(nil, "amount_sent_msat is lower than amount_msat")
		}

		fees := sent - amount
		result.FeesMsat = &fees
	}

	return result, nil
}

func toNodeInfo(res *clnrpc.GetinfoResponse) common.NodeInfo {
	return common.NodeInfo{
		Backend:    common.BackendClnGrpc,
		Version:    res.Version,
		Network:    common.ParseNetwork(res.Network),
		NodePubkey: hex.EncodeToString(res.Id),
		Channels: common.ChannelStats{
			Active:   int64(res.NumActiveChannels),
			Inactive: int64(res.NumInactiveChannels),
			Pending:  int64(res.NumPendingChannels),
		},
	}
}

func toInvoiceStatus(status clnrpc.ListinvoicesInvoicesStatus) common.InvoiceStatus {
	switch status {
	case clnrpc.ListinvoicesInvoices_PAID:
		return common.InvoiceStatusSettled
	case clnrpc.ListinvoicesInvoices_EXPIRED:
		return common.InvoiceStatusCancelled
	default:
		return common.InvoiceStatusPending
	}
}

// toInvoice needs the bolt11 text for the creation date; listinvoices only
// reports the expiry time.
func toInvoice(inv *clnrpc.ListinvoicesInvoices) (common.Invoice, error) {
	invoice := common.Invoice{
		PaymentHash: hex.EncodeToString(inv.PaymentHash),
		Settled:     inv.Status == clnrpc.ListinvoicesInvoices_PAID,
		Status:      toInvoiceStatus(inv.Status),
	}

	if inv.Description != nil {
		invoice.Memo = *inv.Description
	}

	amount := inv.AmountMsat
	if amount == nil {
		amount = inv.AmountReceivedMsat
	}

	invoice.AmountMsat = amount.GetMsat()
	invoice.Amount = common.MsatToSat(invoice.AmountMsat)

	if len(inv.PaymentPreimage) > 0 {
		invoice.Preimage = hex.EncodeToString(inv.PaymentPreimage)
	}

	if inv.PaidAt != nil {
		invoice.SettleDate = int64(*inv.PaidAt)
	}

	if inv.Bolt11 != nil {
		invoice.Bolt11 = *inv.Bolt11

		decoded, err := parseBolt11(invoice.Bolt11)
		if err != nil {
			return common.Invoice{}, err
		}

		invoice.CreationDate = decoded.Timestamp.Unix()
		invoice.Expiry = int64(decoded.Expiry().Seconds())
	}

	return invoice, nil
}
