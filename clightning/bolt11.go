package cLightning

import (
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/lightningnetwork/lnd/zpay32"
	"github.com/pkg/errors"

	"github.com/lncm/una/common"
)

// The longest prefixes go first: lnbcrt before lnbc and lntbs before lntb.
var bolt11Prefixes = []struct {
	hrp    string
	params *chaincfg.Params
}{
	{"lnbcrt", &chaincfg.RegressionNetParams},
	{"lnbc", &chaincfg.MainNetParams},
	{"lntbs", &chaincfg.SigNetParams},
	{"lntb", &chaincfg.TestNet3Params},
	{"lnsb", &chaincfg.SimNetParams},
}

func bolt11Network(bolt11 string) (*chaincfg.Params, error) {
	s := strings.ToLower(bolt11)
	for _, p := range bolt11Prefixes {
		if strings.HasPrefix(s, p.hrp) {
			return p.params, nil
		}
	}

	return nil, common.NewConversionError(errors.New("unknown invoice prefix"), "can't parse bolt11 invoice")
}

func parseBolt11(bolt11 string) (*zpay32.Invoice, error) {
	bolt11 = strings.TrimSpace(bolt11)

	params, err := bolt11Network(bolt11)
	if err != nil {
		return nil, err
	}

	inv, err := zpay32.Decode(bolt11, params)
	if err != nil {
		return nil, common.NewConversionError(err, "can't parse bolt11 invoice")
	}

	return inv, nil
}

func featureStatus(fv *lnwire.FeatureVector, required lnwire.FeatureBit) common.FeatureActivationStatus {
	switch {
	case fv == nil:
		return common.FeatureUnknown
	case fv.IsSet(required):
		return common.FeatureMandatory
	case fv.IsSet(required + 1):
		return common.FeatureOptional
	default:
		return common.FeatureUnknown
	}
}

// decodeBolt11 parses an invoice without asking the node. Invoices that only
// commit to a description hash can't be resolved and return NotImplemented.
func decodeBolt11(bolt11 string) (common.DecodeInvoiceResult, error) {
	inv, err := parseBolt11(bolt11)
	if err != nil {
		return common.DecodeInvoiceResult{}, err
	}

	if inv.Description == nil {
		return common.DecodeInvoiceResult{}, common.NewNotImplemented("decoding invoices with a description hash is not supported")
	}

	result := common.DecodeInvoiceResult{
		CreationDate:       inv.Timestamp.Unix(),
		Memo:               *inv.Description,
		Expiry:             int64(inv.Expiry().Seconds()),
		MinFinalCltvExpiry: inv.MinFinalCLTVExpiry(),
		RouteHints:         []common.RoutingHint{},
		Features: &common.InvoiceFeatures{
			PaymentSecret:         featureStatus(inv.Features, lnwire.PaymentAddrRequired),
			BasicMpp:              featureStatus(inv.Features, lnwire.MPPRequired),
			OptionPaymentMetadata: featureStatus(inv.Features, lnwire.PaymentMetadataRequired),
			VarOnionOptin:         featureStatus(inv.Features, lnwire.TLVOnionPayloadRequired),
		},
	}

	if inv.PaymentHash != nil {
		result.PaymentHash = hex.EncodeToString(inv.PaymentHash[:])
	}

	if inv.Destination != nil {
		result.Destination = hex.EncodeToString(inv.Destination.SerializeCompressed())
	}

	if inv.MilliSat != nil {
		msat := uint64(*inv.MilliSat)
		sat := common.MsatToSat(msat)
		result.AmountMsat = &msat
		result.Amount = &sat
	}

	for _, route := range inv.RouteHints {
		hint := common.RoutingHint{HopHints: make([]common.HopHint, 0, len(route))}
		for _, hop := range route {
			hh := common.HopHint{
				ChanID:                    hop.ChannelID,
				FeeBaseMsat:               hop.FeeBaseMSat,
				FeeProportionalMillionths: hop.FeeProportionalMillionths,
				CltvExpiryDelta:           uint32(hop.CLTVExpiryDelta),
			}

			if hop.NodeID != nil {
				hh.NodeID = hex.EncodeToString(hop.NodeID.SerializeCompressed())
			}

			hint.HopHints = append(hint.HopHints, hh)
		}

		result.RouteHints = append(result.RouteHints, hint)
	}

	return result, nil
}
