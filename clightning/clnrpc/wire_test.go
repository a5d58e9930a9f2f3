package clnrpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestCodecSkipsUnknownFields(t *testing.T) {
	b := (&GetinfoResponse{Version: "v24.02", Network: "regtest", NumActiveChannels: 3}).marshal(nil)

	// our_features (10) and fees_collected_msat (13) aren't modelled
	b = protowire.AppendTag(b, 10, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte{0x01, 0x02})
	b = protowire.AppendTag(b, 13, protowire.VarintType)
	b = protowire.AppendVarint(b, 42)

	var res GetinfoResponse
	require.NoError(t, Codec{}.Unmarshal(b, &res))

	assert.Equal(t, "v24.02", res.Version)
	assert.Equal(t, "regtest", res.Network)
	assert.EqualValues(t, 3, res.NumActiveChannels)
}

func TestCodecOptionalFields(t *testing.T) {
	empty := ""
	maxfee := 0.5

	b, err := Codec{}.Marshal(&PayRequest{
		Bolt11:        "lnbcrt1",
		Label:         &empty,
		Maxfeepercent: &maxfee,
		Maxfee:        &Amount{Msat: 2000},
	})
	require.NoError(t, err)

	var req PayRequest
	require.NoError(t, Codec{}.Unmarshal(b, &req))

	require.NotNil(t, req.Label)
	assert.Equal(t, "", *req.Label)
	require.NotNil(t, req.Maxfeepercent)
	assert.Equal(t, 0.5, *req.Maxfeepercent)
	assert.EqualValues(t, 2000, req.Maxfee.GetMsat())
	assert.Nil(t, req.Msatoshi)
	assert.Nil(t, req.Description)
}

func TestCodecAmountOrAny(t *testing.T) {
	for name, in := range map[string]*AmountOrAny{
		"amount": {Amount: &Amount{Msat: 1500}},
		"any":    {Any: true},
	} {
		t.Run(name, func(t *testing.T) {
			b, err := Codec{}.Marshal(&InvoiceRequest{Msatoshi: in, Label: "l", Fallbacks: []string{"a", "b"}})
			require.NoError(t, err)

			var req InvoiceRequest
			require.NoError(t, Codec{}.Unmarshal(b, &req))

			require.NotNil(t, req.Msatoshi)
			assert.Equal(t, in.Amount.GetMsat(), req.Msatoshi.Amount.GetMsat())
			assert.Equal(t, in.Any, req.Msatoshi.Any)
			assert.Equal(t, []string{"a", "b"}, req.Fallbacks)
		})
	}
}

func TestCodecRejectsForeignTypes(t *testing.T) {
	_, err := Codec{}.Marshal("nope")
	assert.Error(t, err)

	assert.Error(t, Codec{}.Unmarshal(nil, new(int)))
}

func TestCodecTruncatedInput(t *testing.T) {
	b := (&InvoiceResponse{Bolt11: "lnbcrt10n1", PaymentHash: []byte{1, 2, 3}}).marshal(nil)

	var res InvoiceResponse
	assert.Error(t, Codec{}.Unmarshal(b[:len(b)-1], &res))
}

func TestCodecPaidInvoiceLayout(t *testing.T) {
	var amount []byte
	amount = protowire.AppendTag(amount, 1, protowire.VarintType)
	amount = protowire.AppendVarint(amount, 1500)

	var inv []byte
	inv = protowire.AppendTag(inv, 1, protowire.BytesType)
	inv = protowire.AppendString(inv, "una-1")
	inv = protowire.AppendTag(inv, 4, protowire.VarintType)
	inv = protowire.AppendVarint(inv, uint64(ListinvoicesInvoices_PAID))
	inv = protowire.AppendTag(inv, 9, protowire.BytesType)
	inv = protowire.AppendBytes(inv, []byte{0xaa, 0xbb})
	inv = protowire.AppendTag(inv, 10, protowire.VarintType)
	inv = protowire.AppendVarint(inv, 7)
	inv = protowire.AppendTag(inv, 11, protowire.BytesType)
	inv = protowire.AppendBytes(inv, amount)
	inv = protowire.AppendTag(inv, 12, protowire.VarintType)
	inv = protowire.AppendVarint(inv, 1700000100)
	inv = protowire.AppendTag(inv, 13, protowire.BytesType)
	inv = protowire.AppendBytes(inv, []byte{0x11, 0x22})

	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, inv)

	var res ListinvoicesResponse
	require.NoError(t, Codec{}.Unmarshal(b, &res))
	require.Len(t, res.Invoices, 1)

	got := res.Invoices[0]
	assert.Equal(t, "una-1", got.Label)
	assert.Equal(t, ListinvoicesInvoices_PAID, got.Status)
	assert.Equal(t, []byte{0xaa, 0xbb}, got.LocalOfferId)
	require.NotNil(t, got.PayIndex)
	assert.EqualValues(t, 7, *got.PayIndex)
	assert.EqualValues(t, 1500, got.AmountReceivedMsat.GetMsat())
	require.NotNil(t, got.PaidAt)
	assert.EqualValues(t, 1700000100, *got.PaidAt)
	assert.Equal(t, []byte{0x11, 0x22}, got.PaymentPreimage)

	again, err := Codec{}.Marshal(&res)
	require.NoError(t, err)
	assert.Equal(t, b, again)
}
