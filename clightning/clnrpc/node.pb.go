// Hand-written message types for the subset of cln-grpc described in
// node.proto. Encoding goes through protowire so no protoc step is needed.

package clnrpc

import (
	"google.golang.org/protobuf/encoding/protowire"
)

type Amount struct {
	Msat uint64
}

func (m *Amount) GetMsat() uint64 {
	if m == nil {
		return 0
	}
	return m.Msat
}

func (m *Amount) marshal(b []byte) []byte {
	return appendUint(b, 1, m.Msat)
}

func (m *Amount) unmarshal(b []byte) error {
	return unmarshalFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeUint(typ, b, &m.Msat), nil
		}
		return 0, nil
	})
}

// AmountOrAny carries either a fixed Amount or Any=true for "any amount".
type AmountOrAny struct {
	Amount *Amount
	Any    bool
}

func (m *AmountOrAny) marshal(b []byte) []byte {
	if m.Amount != nil {
		return appendMessage(b, 1, m.Amount)
	}
	return appendOptBool(b, 2, &m.Any)
}

func (m *AmountOrAny) unmarshal(b []byte) error {
	return unmarshalFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			m.Amount = &Amount{}
			return consumeMessage(typ, b, m.Amount)
		case 2:
			return consumeBool(typ, b, &m.Any), nil
		}
		return 0, nil
	})
}

type GetinfoRequest struct{}

func (m *GetinfoRequest) marshal(b []byte) []byte { return b }

func (m *GetinfoRequest) unmarshal(b []byte) error {
	return unmarshalFields(b, func(protowire.Number, protowire.Type, []byte) (int, error) { return 0, nil })
}

type GetinfoResponse struct {
	Id                  []byte
	Alias               *string
	Color               []byte
	NumPeers            uint32
	NumPendingChannels  uint32
	NumActiveChannels   uint32
	NumInactiveChannels uint32
	Version             string
	LightningDir        string
	Blockheight         uint32
	Network             string
}

func (m *GetinfoResponse) marshal(b []byte) []byte {
	b = appendBytes(b, 1, m.Id)
	b = appendOptString(b, 2, m.Alias)
	b = appendBytes(b, 3, m.Color)
	b = appendUint(b, 4, uint64(m.NumPeers))
	b = appendUint(b, 5, uint64(m.NumPendingChannels))
	b = appendUint(b, 6, uint64(m.NumActiveChannels))
	b = appendUint(b, 7, uint64(m.NumInactiveChannels))
	b = appendString(b, 8, m.Version)
	b = appendString(b, 9, m.LightningDir)
	b = appendUint(b, 11, uint64(m.Blockheight))
	return appendString(b, 12, m.Network)
}

func (m *GetinfoResponse) unmarshal(b []byte) error {
	return unmarshalFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeBytes(typ, b, &m.Id), nil
		case 2:
			return consumeOptString(typ, b, &m.Alias), nil
		case 3:
			return consumeBytes(typ, b, &m.Color), nil
		case 4:
			return consumeUint32(typ, b, &m.NumPeers), nil
		case 5:
			return consumeUint32(typ, b, &m.NumPendingChannels), nil
		case 6:
			return consumeUint32(typ, b, &m.NumActiveChannels), nil
		case 7:
			return consumeUint32(typ, b, &m.NumInactiveChannels), nil
		case 8:
			return consumeString(typ, b, &m.Version), nil
		case 9:
			return consumeString(typ, b, &m.LightningDir), nil
		case 11:
			return consumeUint32(typ, b, &m.Blockheight), nil
		case 12:
			return consumeString(typ, b, &m.Network), nil
		}
		return 0, nil
	})
}

type ListinvoicesRequest struct {
	Label       *string
	Invstring   *string
	PaymentHash []byte
	OfferId     *string
}

func (m *ListinvoicesRequest) marshal(b []byte) []byte {
	b = appendOptString(b, 1, m.Label)
	b = appendOptString(b, 2, m.Invstring)
	b = appendBytes(b, 3, m.PaymentHash)
	return appendOptString(b, 4, m.OfferId)
}

func (m *ListinvoicesRequest) unmarshal(b []byte) error {
	return unmarshalFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeOptString(typ, b, &m.Label), nil
		case 2:
			return consumeOptString(typ, b, &m.Invstring), nil
		case 3:
			return consumeBytes(typ, b, &m.PaymentHash), nil
		case 4:
			return consumeOptString(typ, b, &m.OfferId), nil
		}
		return 0, nil
	})
}

type ListinvoicesResponse struct {
	Invoices []*ListinvoicesInvoices
}

func (m *ListinvoicesResponse) marshal(b []byte) []byte {
	for _, inv := range m.Invoices {
		b = appendMessage(b, 1, inv)
	}
	return b
}

func (m *ListinvoicesResponse) unmarshal(b []byte) error {
	return unmarshalFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 {
			return 0, nil
		}

		inv := &ListinvoicesInvoices{}
		n, err := consumeMessage(typ, b, inv)
		if n > 0 && err == nil {
			m.Invoices = append(m.Invoices, inv)
		}
		return n, err
	})
}

type ListinvoicesInvoicesStatus int32

const (
	ListinvoicesInvoices_UNPAID  ListinvoicesInvoicesStatus = 0
	ListinvoicesInvoices_PAID    ListinvoicesInvoicesStatus = 1
	ListinvoicesInvoices_EXPIRED ListinvoicesInvoicesStatus = 2
)

type ListinvoicesInvoices struct {
	Label              string
	Description        *string
	PaymentHash        []byte
	Status             ListinvoicesInvoicesStatus
	ExpiresAt          uint64
	AmountMsat         *Amount
	Bolt11             *string
	Bolt12             *string
	LocalOfferId       []byte
	PayIndex           *uint64
	AmountReceivedMsat *Amount
	PaidAt             *uint64
	PaymentPreimage    []byte
}

func (m *ListinvoicesInvoices) marshal(b []byte) []byte {
	b = appendString(b, 1, m.Label)
	b = appendOptString(b, 2, m.Description)
	b = appendBytes(b, 3, m.PaymentHash)
	b = appendUint(b, 4, uint64(m.Status))
	b = appendUint(b, 5, m.ExpiresAt)
	if m.AmountMsat != nil {
		b = appendMessage(b, 6, m.AmountMsat)
	}
	b = appendOptString(b, 7, m.Bolt11)
	b = appendOptString(b, 8, m.Bolt12)
	b = appendBytes(b, 9, m.LocalOfferId)
	b = appendOptUint(b, 10, m.PayIndex)
	if m.AmountReceivedMsat != nil {
		b = appendMessage(b, 11, m.AmountReceivedMsat)
	}
	b = appendOptUint(b, 12, m.PaidAt)
	return appendBytes(b, 13, m.PaymentPreimage)
}

func (m *ListinvoicesInvoices) unmarshal(b []byte) error {
	return unmarshalFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Label), nil
		case 2:
			return consumeOptString(typ, b, &m.Description), nil
		case 3:
			return consumeBytes(typ, b, &m.PaymentHash), nil
		case 4:
			var s uint64
			n := consumeUint(typ, b, &s)
			m.Status = ListinvoicesInvoicesStatus(s)
			return n, nil
		case 5:
			return consumeUint(typ, b, &m.ExpiresAt), nil
		case 6:
			m.AmountMsat = &Amount{}
			return consumeMessage(typ, b, m.AmountMsat)
		case 7:
			return consumeOptString(typ, b, &m.Bolt11), nil
		case 8:
			return consumeOptString(typ, b, &m.Bolt12), nil
		case 9:
			return consumeBytes(typ, b, &m.LocalOfferId), nil
		case 10:
			return consumeOptUint(typ, b, &m.PayIndex), nil
		case 11:
			m.AmountReceivedMsat = &Amount{}
			return consumeMessage(typ, b, m.AmountReceivedMsat)
		case 12:
			return consumeOptUint(typ, b, &m.PaidAt), nil
		case 13:
			return consumeBytes(typ, b, &m.PaymentPreimage), nil
		}
		return 0, nil
	})
}

type InvoiceRequest struct {
	Msatoshi              *AmountOrAny
	Description           string
	Label                 string
	Fallbacks             []string
	Preimage              []byte
	Cltv                  *uint32
	Expiry                *uint64
	Exposeprivatechannels *bool
	Deschashonly          *bool
}

func (m *InvoiceRequest) marshal(b []byte) []byte {
	if m.Msatoshi != nil {
		b = appendMessage(b, 1, m.Msatoshi)
	}
	b = appendString(b, 2, m.Description)
	b = appendString(b, 3, m.Label)
	for _, f := range m.Fallbacks {
		f := f
		b = appendOptString(b, 4, &f)
	}
	b = appendBytes(b, 5, m.Preimage)
	b = appendOptUint32(b, 6, m.Cltv)
	b = appendOptUint(b, 7, m.Expiry)
	b = appendOptBool(b, 8, m.Exposeprivatechannels)
	return appendOptBool(b, 9, m.Deschashonly)
}

func (m *InvoiceRequest) unmarshal(b []byte) error {
	return unmarshalFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			m.Msatoshi = &AmountOrAny{}
			return consumeMessage(typ, b, m.Msatoshi)
		case 2:
			return consumeString(typ, b, &m.Description), nil
		case 3:
			return consumeString(typ, b, &m.Label), nil
		case 4:
			var f string
			n := consumeString(typ, b, &f)
			if n > 0 {
				m.Fallbacks = append(m.Fallbacks, f)
			}
			return n, nil
		case 5:
			return consumeBytes(typ, b, &m.Preimage), nil
		case 6:
			return consumeOptUint32(typ, b, &m.Cltv), nil
		case 7:
			return consumeOptUint(typ, b, &m.Expiry), nil
		case 8:
			return consumeOptBool(typ, b, &m.Exposeprivatechannels), nil
		case 9:
			return consumeOptBool(typ, b, &m.Deschashonly), nil
		}
		return 0, nil
	})
}

type InvoiceResponse struct {
	Bolt11        string
	PaymentHash   []byte
	PaymentSecret []byte
	ExpiresAt     uint64
}

func (m *InvoiceResponse) marshal(b []byte) []byte {
	b = appendString(b, 1, m.Bolt11)
	b = appendBytes(b, 2, m.PaymentHash)
	b = appendBytes(b, 3, m.PaymentSecret)
	return appendUint(b, 4, m.ExpiresAt)
}

func (m *InvoiceResponse) unmarshal(b []byte) error {
	return unmarshalFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Bolt11), nil
		case 2:
			return consumeBytes(typ, b, &m.PaymentHash), nil
		case 3:
			return consumeBytes(typ, b, &m.PaymentSecret), nil
		case 4:
			return consumeUint(typ, b, &m.ExpiresAt), nil
		}
		return 0, nil
	})
}

type PayRequest struct {
	Bolt11        string
	Msatoshi      *Amount
	Label         *string
	Maxfeepercent *float64
	RetryFor      *uint32
	Maxdelay      *uint32
	Exemptfee     *Amount
	Riskfactor    *float64
	Maxfee        *Amount
	Description   *string
}

func (m *PayRequest) marshal(b []byte) []byte {
	b = appendString(b, 1, m.Bolt11)
	if m.Msatoshi != nil {
		b = appendMessage(b, 2, m.Msatoshi)
	}
	b = appendOptString(b, 3, m.Label)
	b = appendOptDouble(b, 4, m.Maxfeepercent)
	b = appendOptUint32(b, 5, m.RetryFor)
	b = appendOptUint32(b, 6, m.Maxdelay)
	if m.Exemptfee != nil {
		b = appendMessage(b, 7, m.Exemptfee)
	}
	b = appendOptDouble(b, 8, m.Riskfactor)
	if m.Maxfee != nil {
		b = appendMessage(b, 11, m.Maxfee)
	}
	return appendOptString(b, 12, m.Description)
}

func (m *PayRequest) unmarshal(b []byte) error {
	return unmarshalFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Bolt11), nil
		case 2:
			m.Msatoshi = &Amount{}
			return consumeMessage(typ, b, m.Msatoshi)
		case 3:
			return consumeOptString(typ, b, &m.Label), nil
		case 4:
			return consumeOptDouble(typ, b, &m.Maxfeepercent), nil
		case 5:
			return consumeOptUint32(typ, b, &m.RetryFor), nil
		case 6:
			return consumeOptUint32(typ, b, &m.Maxdelay), nil
		case 7:
			m.Exemptfee = &Amount{}
			return consumeMessage(typ, b, m.Exemptfee)
		case 8:
			return consumeOptDouble(typ, b, &m.Riskfactor), nil
		case 11:
			m.Maxfee = &Amount{}
			return consumeMessage(typ, b, m.Maxfee)
		case 12:
			return consumeOptString(typ, b, &m.Description), nil
		}
		return 0, nil
	})
}

type PayResponsePayStatus int32

const (
	PayResponse_COMPLETE PayResponsePayStatus = 0
	PayResponse_PENDING  PayResponsePayStatus = 1
	PayResponse_FAILED   PayResponsePayStatus = 2
)

type PayResponse struct {
	PaymentPreimage          []byte
	Destination              []byte
	PaymentHash              []byte
	CreatedAt                float64
	Parts                    uint32
	AmountMsat               *Amount
	AmountSentMsat           *Amount
	WarningPartialCompletion *string
	Status                   PayResponsePayStatus
}

func (m *PayResponse) marshal(b []byte) []byte {
	b = appendBytes(b, 1, m.PaymentPreimage)
	b = appendBytes(b, 2, m.Destination)
	b = appendBytes(b, 3, m.PaymentHash)
	b = appendDouble(b, 4, m.CreatedAt)
	b = appendUint(b, 5, uint64(m.Parts))
	if m.AmountMsat != nil {
		b = appendMessage(b, 6, m.AmountMsat)
	}
	if m.AmountSentMsat != nil {
		b = appendMessage(b, 7, m.AmountSentMsat)
	}
	b = appendOptString(b, 8, m.WarningPartialCompletion)
	return appendUint(b, 9, uint64(m.Status))
}

func (m *PayResponse) unmarshal(b []byte) error {
	return unmarshalFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeBytes(typ, b, &m.PaymentPreimage), nil
		case 2:
			return consumeBytes(typ, b, &m.Destination), nil
		case 3:
			return consumeBytes(typ, b, &m.PaymentHash), nil
		case 4:
			return consumeDouble(typ, b, &m.CreatedAt), nil
		case 5:
			return consumeUint32(typ, b, &m.Parts), nil
		case 6:
			m.AmountMsat = &Amount{}
			return consumeMessage(typ, b, m.AmountMsat)
		case 7:
			m.AmountSentMsat = &Amount{}
			return consumeMessage(typ, b, m.AmountSentMsat)
		case 8:
			return consumeOptString(typ, b, &m.WarningPartialCompletion), nil
		case 9:
			var s uint64
			n := consumeUint(typ, b, &s)
			m.Status = PayResponsePayStatus(s)
			return n, nil
		}
		return 0, nil
	})
}
