package orderv1

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrParse indicates a malformed wire-format instruction. It is surfaced to
// the caller of Decode and never reaches the matching core.
var ErrParse = errors.New("malformed order text")

// Wire tokens. An instruction is encoded as colon-separated key=value tokens,
// e.g. type=LIMIT:id=101:origin=Client1:destination=ME:symbol=MSFT:direction=BUY:shares=15:price=92.0
const (
	tokenType        = "type"
	tokenID          = "id"
	tokenOrigin      = "origin"
	tokenDestination = "destination"
	tokenSymbol      = "symbol"
	tokenDirection   = "direction"
	tokenShares      = "shares"
	tokenPrice       = "price"
)

var knownTokens = map[string]bool{
	tokenType:        true,
	tokenID:          true,
	tokenOrigin:      true,
	tokenDestination: true,
	tokenSymbol:      true,
	tokenDirection:   true,
	tokenShares:      true,
	tokenPrice:       true,
}

// Decode parses a wire-format instruction into an Order.
//
// Required token sets per type:
//
//	LIMIT:  id, symbol, direction, shares, price
//	MARKET: id, symbol, direction, shares (price forbidden)
//	CANCEL: id only
//	AMEND:  id plus exactly one of price, shares
//
// origin and destination are accepted on every type. A repeated, missing,
// unrecognized or extra token fails with a descriptive error.
func Decode(text string) (*Order, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return nil, err
	}

	typeValue, ok := tokens[tokenType]
	if !ok {
		return nil, fmt.Errorf("%w: missing token [type]", ErrParse)
	}

	order := &Order{
		Origin:      tokens[tokenOrigin],
		Destination: tokens[tokenDestination],
	}

	order.ID, err = parseID(tokens)
	if err != nil {
		return nil, err
	}

	switch Type(typeValue) {
	case TypeLimit:
		order.Type = TypeLimit
		if err := requireTokens(tokens, tokenSymbol, tokenDirection, tokenShares, tokenPrice); err != nil {
			return nil, err
		}
		return fillLimit(order, tokens)

	case TypeMarket:
		order.Type = TypeMarket
		if err := requireTokens(tokens, tokenSymbol, tokenDirection, tokenShares); err != nil {
			return nil, err
		}
		if err := forbidTokens(tokens, TypeMarket, tokenPrice); err != nil {
			return nil, err
		}
		return fillMarket(order, tokens)

	case TypeCancel:
		order.Type = TypeCancel
		if err := forbidTokens(tokens, TypeCancel, tokenSymbol, tokenDirection, tokenShares, tokenPrice); err != nil {
			return nil, err
		}
		return order, nil

	case TypeAmend:
		order.Type = TypeAmend
		if err := forbidTokens(tokens, TypeAmend, tokenSymbol, tokenDirection); err != nil {
			return nil, err
		}
		return fillAmend(order, tokens)

	default:
		return nil, fmt.Errorf("Invalid order type [%s]", typeValue)
	}
}

// Encode renders an Order back into its wire form. It is the inverse of
// Decode for well-formed orders.
func Encode(o *Order) string {
	parts := []string{
		tokenType + "=" + string(o.Type),
		tokenID + "=" + strconv.FormatUint(o.ID, 10),
	}
	if o.Origin != "" {
		parts = append(parts, tokenOrigin+"="+o.Origin)
	}
	if o.Destination != "" {
		parts = append(parts, tokenDestination+"="+o.Destination)
	}

	switch o.Type {
	case TypeLimit:
		parts = append(parts,
			tokenSymbol+"="+o.Symbol,
			tokenDirection+"="+string(o.Direction),
			tokenShares+"="+strconv.FormatInt(o.Shares, 10),
			tokenPrice+"="+formatPrice(o.Price),
		)
	case TypeMarket:
		parts = append(parts,
			tokenSymbol+"="+o.Symbol,
			tokenDirection+"="+string(o.Direction),
			tokenShares+"="+strconv.FormatInt(o.Shares, 10),
		)
	case TypeAmend:
		if o.Amend == AmendPrice {
			parts = append(parts, tokenPrice+"="+formatPrice(o.Price))
		} else {
			parts = append(parts, tokenShares+"="+strconv.FormatInt(o.Shares, 10))
		}
	}

	return strings.Join(parts, ":")
}

func tokenize(text string) (map[string]string, error) {
	tokens := make(map[string]string)
	for _, part := range strings.Split(text, ":") {
		key, value, found := strings.Cut(part, "=")
		if !found || key == "" || value == "" {
			return nil, fmt.Errorf("%w: bad token [%s]", ErrParse, part)
		}
		if !knownTokens[key] {
			return nil, fmt.Errorf("%w: unrecognized token [%s]", ErrParse, key)
		}
		if _, dup := tokens[key]; dup {
			return nil, fmt.Errorf("%w: repeated token [%s]", ErrParse, key)
		}
		tokens[key] = value
	}
	return tokens, nil
}

func requireTokens(tokens map[string]string, keys ...string) error {
	for _, key := range keys {
		if _, ok := tokens[key]; !ok {
			return fmt.Errorf("%w: missing token [%s]", ErrParse, key)
		}
	}
	return nil
}

func forbidTokens(tokens map[string]string, orderType Type, keys ...string) error {
	for _, key := range keys {
		if _, ok := tokens[key]; ok {
			return fmt.Errorf("%w: token [%s] not allowed for type %s", ErrParse, key, orderType)
		}
	}
	return nil
}

func parseID(tokens map[string]string) (uint64, error) {
	raw, ok := tokens[tokenID]
	if !ok {
		return 0, fmt.Errorf("%w: missing token [id]", ErrParse)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad id [%s]", ErrParse, raw)
	}
	return id, nil
}

func parseDirection(raw string) (Direction, error) {
	switch Direction(raw) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	default:
		return "", fmt.Errorf("%w: bad direction [%s]", ErrParse, raw)
	}
}

func parseShares(raw string) (int64, error) {
	shares, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || shares <= 0 {
		return 0, fmt.Errorf("%w: bad shares [%s]", ErrParse, raw)
	}
	return shares, nil
}

func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad price [%s]", ErrParse, raw)
	}
	return price, nil
}

func fillLimit(order *Order, tokens map[string]string) (*Order, error) {
	var err error
	order.Symbol = tokens[tokenSymbol]
	if order.Direction, err = parseDirection(tokens[tokenDirection]); err != nil {
		return nil, err
	}
	if order.Shares, err = parseShares(tokens[tokenShares]); err != nil {
		return nil, err
	}
	if order.Price, err = parsePrice(tokens[tokenPrice]); err != nil {
		return nil, err
	}
	return order, nil
}

func fillMarket(order *Order, tokens map[string]string) (*Order, error) {
	var err error
	order.Symbol = tokens[tokenSymbol]
	if order.Direction, err = parseDirection(tokens[tokenDirection]); err != nil {
		return nil, err
	}
	if order.Shares, err = parseShares(tokens[tokenShares]); err != nil {
		return nil, err
	}
	return order, nil
}

func fillAmend(order *Order, tokens map[string]string) (*Order, error) {
	_, hasPrice := tokens[tokenPrice]
	_, hasShares := tokens[tokenShares]

	switch {
	case hasPrice && hasShares:
		return nil, fmt.Errorf("%w: amend must carry exactly one of [price], [shares]", ErrParse)
	case hasPrice:
		price, err := parsePrice(tokens[tokenPrice])
		if err != nil {
			return nil, err
		}
		order.Amend = AmendPrice
		order.Price = price
	case hasShares:
		shares, err := parseShares(tokens[tokenShares])
		if err != nil {
			return nil, err
		}
		order.Amend = AmendShares
		order.Shares = shares
	default:
		return nil, fmt.Errorf("%w: amend must carry exactly one of [price], [shares]", ErrParse)
	}

	return order, nil
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
