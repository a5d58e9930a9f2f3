package lnd

import (
	"encoding/hex"
	"math"
	"strconv"

	"github.com/lightningnetwork/lnd/lnrpc"
	"github.com/lightningnetwork/lnd/lnwire"

	"github.com/lncm/una/common"
)

func newInvoiceRequest(params common.CreateInvoiceParams) (*lnrpc.Invoice, error) {
	req := &lnrpc.Invoice{
		Memo:         params.Description,
		ValueMsat:    int64(common.AmountMsat(params.Amount, params.AmountMsat)),
		Expiry:       common.DefaultInvoiceExpiry,
		FallbackAddr: params.FallbackAddress,
		CltvExpiry:   uint64(params.CltvExpiry),
	}

	if params.ExpireIn > 0 {
		req.Expiry = int64(params.ExpireIn)
	}

	if params.DescriptionHash != "" {
		hash, err := hex.DecodeString(params.DescriptionHash)
		if err != nil {
			return nil, common.NewConversionError(err, "description_hash must be hex")
		}

		req.DescriptionHash = hash
	}

	if params.PaymentPreimage != "" {
		preimage, err := hex.DecodeString(params.PaymentPreimage)
		if err != nil {
			return nil, common.NewConversionError(err, "payment_preimage must be hex")
		}

		req.RPreimage = preimage
	}

	return req, nil
}

// lnd has no invoice labels; the add index is the closest thing to a
// node-assigned identifier.
func toCreateInvoiceResult(res *lnrpc.AddInvoiceResponse) common.CreateInvoiceResult {
	return common.CreateInvoiceResult{
		PaymentRequest: res.GetPaymentRequest(),
		PaymentHash:    hex.EncodeToString(res.GetRHash()),
		Label:          strconv.FormatUint(res.GetAddIndex(), 10),
	}
}

// fee_limit is a oneof, so a flat limit takes precedence over a percentage.
func newSendRequest(params common.PayInvoiceParams) *lnrpc.SendRequest {
	req := &lnrpc.SendRequest{
		PaymentRequest:   params.PaymentRequest,
		AmtMsat:          int64(common.AmountMsat(params.Amount, params.AmountMsat)),
		AllowSelfPayment: false,
	}

	if flat := common.AmountMsat(params.MaxFeeSat, params.MaxFeeMsat); flat > 0 {
		req.FeeLimit = &lnrpc.FeeLimit{Limit: &lnrpc.FeeLimit_FixedMsat{FixedMsat: int64(flat)}}
	} else if params.MaxFeePercent > 0 {
		// lnd only takes whole percents
		req.FeeLimit = &lnrpc.FeeLimit{Limit: &lnrpc.FeeLimit_Percent{Percent: int64(math.Ceil(params.MaxFeePercent))}}
	}

	return req
}

func toPayInvoiceResult(res *lnrpc.SendResponse) (common.PayInvoiceResult, error) {
	if res.GetPaymentError() != "" {
		return common.PayInvoiceResult{}, common.NewApiError(res.GetPaymentError())
	}

	if len(res.GetPaymentPreimage()) == 0 {
		return common.PayInvoiceResult{}, common.NewApiError("invoice paid but missing preimage")
	}

	result := common.PayInvoiceResult{
		PaymentHash:     hex.EncodeToString(res.GetPaymentHash()),
		PaymentPreimage: hex.EncodeToString(res.GetPaymentPreimage()),
	}

	if route := res.GetPaymentRoute(); route != nil {
		fees, err := common.ToUint64("total_fees_msat", route.GetTotalFeesMsat())
		if err != nil {
			return common.PayInvoiceResult{}, err
		}

		result.FeesMsat = &fees
	}

	return result, nil
}

func toNodeInfo(res *lnrpc.GetInfoResponse) common.NodeInfo {
	network := common.Network("unknown")
	if chains := res.GetChains(); len(chains) > 0 {
		network = common.ParseNetwork(chains[0].GetNetwork())
	}

	return common.NodeInfo{
		Backend:    common.BackendLndRest,
		Version:    res.GetVersion(),
		Network:    network,
		NodePubkey: res.GetIdentityPubkey(),
		Channels: common.ChannelStats{
			Active:   int64(res.GetNumActiveChannels()),
			Inactive: int64(res.GetNumInactiveChannels()),
			Pending:  int64(res.GetNumPendingChannels()),
		},
	}
}

func toInvoiceStatus(state lnrpc.Invoice_InvoiceState) common.InvoiceStatus {
	switch state {
	case lnrpc.Invoice_SETTLED:
		return common.InvoiceStatusSettled
	case lnrpc.Invoice_CANCELED:
		return common.InvoiceStatusCancelled
	case lnrpc.Invoice_ACCEPTED:
		return common.InvoiceStatusAccepted
	default:
		return common.InvoiceStatusPending
	}
}

func toInvoice(inv *lnrpc.Invoice) (common.Invoice, error) {
	amountMsat, err := common.ToUint64("value_msat", inv.GetValueMsat())
	if err != nil {
		return common.Invoice{}, err
	}

	settled := inv.GetState() == lnrpc.Invoice_SETTLED

	invoice := common.Invoice{
		Bolt11:       inv.GetPaymentRequest(),
		Memo:         inv.GetMemo(),
		Amount:       common.MsatToSat(amountMsat),
		AmountMsat:   amountMsat,
		PaymentHash:  hex.EncodeToString(inv.GetRHash()),
		Settled:      settled,
		CreationDate: inv.GetCreationDate(),
		Expiry:       inv.GetExpiry(),
		Status:       toInvoiceStatus(inv.GetState()),
	}

	if len(inv.GetRPreimage()) > 0 {
		invoice.Preimage = hex.EncodeToString(inv.GetRPreimage())
	}

	if settled {
		invoice.SettleDate = inv.GetSettleDate()
	}

	return invoice, nil
}

// featureStatus looks a feature up under both its required and optional bit.
func featureStatus(features map[uint32]*lnrpc.Feature, required lnwire.FeatureBit) common.FeatureActivationStatus {
	f, ok := features[uint32(required)]
	if !ok {
		f, ok = features[uint32(required)+1]
	}

	if !ok || !f.GetIsKnown() {
		return common.FeatureUnknown
	}

	if f.GetIsRequired() {
		return common.FeatureMandatory
	}

	return common.FeatureOptional
}

func toDecodeInvoiceResult(req *lnrpc.PayReq) (common.DecodeInvoiceResult, error) {
	cltv, err := common.ToUint64("cltv_expiry", req.GetCltvExpiry())
	if err != nil {
		return common.DecodeInvoiceResult{}, err
	}

	result := common.DecodeInvoiceResult{
		CreationDate:       req.GetTimestamp(),
		Destination:        req.GetDestination(),
		Memo:               req.GetDescription(),
		PaymentHash:        req.GetPaymentHash(),
		Expiry:             req.GetExpiry(),
		MinFinalCltvExpiry: cltv,
		RouteHints:         []common.RoutingHint{},
	}

	if req.GetNumMsat() > 0 {
		msat := uint64(req.GetNumMsat())
		sat := common.MsatToSat(msat)
		result.AmountMsat = &msat
		result.Amount = &sat
	}

	features := req.GetFeatures()
	result.Features = &common.InvoiceFeatures{
		PaymentSecret:         featureStatus(features, lnwire.PaymentAddrRequired),
		BasicMpp:              featureStatus(features, lnwire.MPPRequired),
		OptionPaymentMetadata: featureStatus(features, lnwire.PaymentMetadataRequired),
		VarOnionOptin:         featureStatus(features, lnwire.TLVOnionPayloadRequired),
	}

	for _, rh := range req.GetRouteHints() {
		hint := common.RoutingHint{HopHints: []common.HopHint{}}
		for _, hh := range rh.GetHopHints() {
			hint.HopHints = append(hint.HopHints, common.HopHint{
				NodeID:                    hh.GetNodeId(),
				ChanID:                    hh.GetChanId(),
				FeeBaseMsat:               hh.GetFeeBaseMsat(),
				FeeProportionalMillionths: hh.GetFeeProportionalMillionths(),
				CltvExpiryDelta:           hh.GetCltvExpiryDelta(),
			})
		}

		result.RouteHints = append(result.RouteHints, hint)
	}

	return result, nil
}
