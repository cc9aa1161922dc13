package orderv1

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test 1: Decode a full limit order
func TestDecode_Limit(t *testing.T) {
	order, err := Decode("type=LIMIT:id=101:origin=Client1:destination=ME:symbol=MSFT:direction=BUY:shares=15:price=92.0")

	require.NoError(t, err)
	assert.Equal(t, TypeLimit, order.Type)
	assert.Equal(t, uint64(101), order.ID)
	assert.Equal(t, "Client1", order.Origin)
	assert.Equal(t, "ME", order.Destination)
	assert.Equal(t, "MSFT", order.Symbol)
	assert.Equal(t, Buy, order.Direction)
	assert.Equal(t, int64(15), order.Shares)
	assert.Equal(t, 92.0, order.Price)
}

// Test 2: Decode a market order, price forbidden
func TestDecode_Market(t *testing.T) {
	order, err := Decode("type=MARKET:id=7:symbol=IBM:direction=SELL:shares=100")
	require.NoError(t, err)
	assert.Equal(t, TypeMarket, order.Type)
	assert.Equal(t, Sell, order.Direction)
	assert.Equal(t, int64(100), order.Shares)

	_, err = Decode("type=MARKET:id=7:symbol=IBM:direction=SELL:shares=100:price=5")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

// Test 3: Cancel carries id only
func TestDecode_Cancel(t *testing.T) {
	order, err := Decode("type=CANCEL:id=42:origin=Client2")
	require.NoError(t, err)
	assert.Equal(t, TypeCancel, order.Type)
	assert.Equal(t, uint64(42), order.ID)
	assert.Empty(t, order.Symbol)

	_, err = Decode("type=CANCEL:id=42:symbol=IBM")
	assert.ErrorIs(t, err, ErrParse)
}

// Test 4: Amend carries exactly one of price, shares
func TestDecode_Amend(t *testing.T) {
	priced, err := Decode("type=AMEND:id=9:price=12.5")
	require.NoError(t, err)
	assert.Equal(t, TypeAmend, priced.Type)
	assert.Equal(t, AmendPrice, priced.Amend)
	assert.Equal(t, 12.5, priced.Price)

	sized, err := Decode("type=AMEND:id=9:shares=30")
	require.NoError(t, err)
	assert.Equal(t, AmendShares, sized.Amend)
	assert.Equal(t, int64(30), sized.Shares)

	_, err = Decode("type=AMEND:id=9:price=12.5:shares=30")
	assert.ErrorIs(t, err, ErrParse)

	_, err = Decode("type=AMEND:id=9")
	assert.ErrorIs(t, err, ErrParse)
}

// Test 5: Unknown order type carries the exact message and is not a parse error
func TestDecode_UnknownType(t *testing.T) {
	_, err := Decode("type=STOP:id=5")
	require.Error(t, err)
	assert.Equal(t, "Invalid order type [STOP]", err.Error())
	assert.False(t, errors.Is(err, ErrParse))
}

// Test 6: Malformed tokens
func TestDecode_MalformedTokens(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"missing type", "id=1:symbol=IBM"},
		{"missing id", "type=LIMIT:symbol=IBM:direction=BUY:shares=1:price=1"},
		{"bad id", "type=CANCEL:id=abc"},
		{"no equals", "type=LIMIT:id"},
		{"empty value", "type=LIMIT:id="},
		{"unknown token", "type=CANCEL:id=1:color=red"},
		{"repeated token", "type=CANCEL:id=1:id=2"},
		{"bad direction", "type=LIMIT:id=1:symbol=IBM:direction=HOLD:shares=1:price=1"},
		{"zero shares", "type=LIMIT:id=1:symbol=IBM:direction=BUY:shares=0:price=1"},
		{"negative shares", "type=MARKET:id=1:symbol=IBM:direction=BUY:shares=-5"},
		{"bad price", "type=LIMIT:id=1:symbol=IBM:direction=BUY:shares=1:price=abc"},
		{"missing symbol", "type=LIMIT:id=1:direction=BUY:shares=1:price=1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.text)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

// Test 7: Encode/Decode round trip for every type
func TestEncodeDecode_RoundTrip(t *testing.T) {
	orders := []*Order{
		NewLimit(1, "Client1", "ME", "MSFT", Buy, 15, 92.0),
		NewMarket(2, "Client2", "ME", "IBM", Sell, 40),
		NewCancel(3, "Client1", "ME"),
		NewAmendPrice(4, "Client2", "ME", 10.25),
		NewAmendShares(5, "Client2", "ME", 77),
	}

	for _, original := range orders {
		decoded, err := Decode(Encode(original))
		require.NoError(t, err)
		assert.Equal(t, original, decoded)
	}
}
