package common

import (
	"strings"
	"time"
)

const (
	MsatPerSat           = 1000
	DefaultInvoiceExpiry = 3600
)

// Backend selects which node implementation a Node talks to.
type Backend int

const (
	BackendInvalid Backend = iota
	BackendLndRest
	BackendLndGrpc
	BackendClnGrpc
	BackendEclairRest
)

var backendNames = map[Backend]string{
	BackendInvalid:    "InvalidBackend",
	BackendLndRest:    "LndRest",
	BackendLndGrpc:    "LndGrpc",
	BackendClnGrpc:    "ClnGrpc",
	BackendEclairRest: "EclairRest",
}

func (b Backend) String() string {
	if name, ok := backendNames[b]; ok {
		return name
	}

	return backendNames[BackendInvalid]
}

// ParseBackend accepts both the canonical names (`LndRest`) and their
// kebab-case variants (`lnd-rest`). Anything else is BackendInvalid.
func ParseBackend(s string) Backend {
	key := strings.ToLower(strings.ReplaceAll(s, "-", ""))
	for b, name := range backendNames {
		if b != BackendInvalid && strings.ToLower(name) == key {
			return b
		}
	}

	return BackendInvalid
}

func (b Backend) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Backend) UnmarshalText(text []byte) error {
	*b = ParseBackend(string(text))
	return nil
}

// Network is the chain a node runs on. Names other than the three known ones
// are kept verbatim, see ParseNetwork.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
	NetworkRegtest Network = "regtest"
)

func (n Network) IsKnown() bool {
	return n == NetworkMainnet || n == NetworkTestnet || n == NetworkRegtest
}

type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "Pending"
	InvoiceStatusSettled   InvoiceStatus = "Settled"
	InvoiceStatusCancelled InvoiceStatus = "Cancelled"
	InvoiceStatusAccepted  InvoiceStatus = "Accepted"
)

type FeatureActivationStatus string

const (
	FeatureOptional  FeatureActivationStatus = "Optional"
	FeatureMandatory FeatureActivationStatus = "Mandatory"
	FeatureUnknown   FeatureActivationStatus = "Unknown"
)

type (
	// CreateInvoiceParams describes an invoice to be issued. Zero values mean
	// "not set": when both Amount and AmountMsat are zero an any-amount
	// invoice is requested.
	CreateInvoiceParams struct {
		Amount          uint64 `json:"amount,omitempty"`
		AmountMsat      uint64 `json:"amount_msat,omitempty"`
		Description     string `json:"description,omitempty"`
		DescriptionHash string `json:"description_hash,omitempty"`
		Label           string `json:"label,omitempty"`
		ExpireIn        uint32 `json:"expire_in,omitempty"`
		FallbackAddress string `json:"fallback_address,omitempty"`
		PaymentPreimage string `json:"payment_preimage,omitempty"`
		CltvExpiry      uint32 `json:"cltv_expiry,omitempty"`
	}

	CreateInvoiceResult struct {
		PaymentRequest string `json:"payment_request"`
		PaymentHash    string `json:"payment_hash"`
		Label          string `json:"label,omitempty"`
	}

	PayInvoiceParams struct {
		PaymentRequest string  `json:"payment_request"`
		Amount         uint64  `json:"amount,omitempty"`
		AmountMsat     uint64  `json:"amount_msat,omitempty"`
		MaxFeeSat      uint64  `json:"max_fee_sat,omitempty"`
		MaxFeeMsat     uint64  `json:"max_fee_msat,omitempty"`
		MaxFeePercent  float64 `json:"max_fee_percent,omitempty"`
	}

	PayInvoiceResult struct {
		PaymentHash     string  `json:"payment_hash"`
		PaymentPreimage string  `json:"payment_preimage"`
		FeesMsat        *uint64 `json:"fees_msat,omitempty"`
	}

	Invoice struct {
		Bolt11       string        `json:"bolt11"`
		Memo         string        `json:"memo"`
		Amount       uint64        `json:"amount"`
		AmountMsat   uint64        `json:"amount_msat"`
		Preimage     string        `json:"pre_image,omitempty"`
		PaymentHash  string        `json:"payment_hash"`
		Settled      bool          `json:"settled"`
		SettleDate   int64         `json:"settle_date,omitempty"`
		CreationDate int64         `json:"creation_date"`
		Expiry       int64         `json:"expiry"`
		Status       InvoiceStatus `json:"status"`
	}

	InvoiceFeatures struct {
		PaymentSecret         FeatureActivationStatus `json:"payment_secret"`
		BasicMpp              FeatureActivationStatus `json:"basic_mpp"`
		OptionPaymentMetadata FeatureActivationStatus `json:"option_payment_metadata"`
		VarOnionOptin         FeatureActivationStatus `json:"var_onion_optin"`
	}

	HopHint struct {
		NodeID                    string `json:"node_id"`
		ChanID                    uint64 `json:"chan_id"`
		FeeBaseMsat               uint32 `json:"fee_base_msat"`
		FeeProportionalMillionths uint32 `json:"fee_proportional_millionths"`
		CltvExpiryDelta           uint32 `json:"cltv_expiry_delta"`
	}

	RoutingHint struct {
		HopHints []HopHint `json:"hop_hints"`
	}

	DecodeInvoiceResult struct {
		CreationDate       int64            `json:"creation_date"`
		Amount             *uint64          `json:"amount,omitempty"`
		AmountMsat         *uint64          `json:"amount_msat,omitempty"`
		Destination        string           `json:"destination,omitempty"`
		Memo               string           `json:"memo"`
		PaymentHash        string           `json:"payment_hash"`
		Expiry             int64            `json:"expiry"`
		MinFinalCltvExpiry uint64           `json:"min_final_cltv_expiry"`
		Features           *InvoiceFeatures `json:"features,omitempty"`
		RouteHints         []RoutingHint    `json:"route_hints"`
	}

	ChannelStats struct {
		Active   int64 `json:"active"`
		Inactive int64 `json:"inactive"`
		Pending  int64 `json:"pending"`
	}

	NodeInfo struct {
		Backend    Backend      `json:"backend"`
		Version    string       `json:"version"`
		Network    Network      `json:"network"`
		NodePubkey string       `json:"node_pubkey"`
		Channels   ChannelStats `json:"channels"`
	}
)

// IsExpired reports whether an unsettled invoice is past its expiry.
func (i Invoice) IsExpired() bool {
	return !i.Settled && time.Now().After(time.Unix(i.CreationDate+i.Expiry, 0))
}
