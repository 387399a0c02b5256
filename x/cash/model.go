package cash

import (
	"regexp"

	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/errors"
	"github.com/iov-one/vestd/orm"
)

// MaxDecimals is the highest precision a token may declare.
const MaxDecimals = 18

var isTicker = regexp.MustCompile(`^[A-Z][A-Z0-9]{2,7}$`).MatchString

// IsTicker returns true if given string is a valid token ticker.
func IsTicker(ticker string) bool {
	return isTicker(ticker)
}

// Coin is an amount of a single token, expressed in the smallest unit.
type Coin struct {
	Ticker string `json:"ticker"`
	Amount uint64 `json:"amount"`
}

// Validate returns an error if the coin is malformed.
func (c Coin) Validate() error {
	if !IsTicker(c.Ticker) {
		return errors.Wrapf(errors.ErrInvalidInput, "ticker %q", c.Ticker)
	}
	return nil
}

// Wallet holds the balances of a single address. Coins are kept in
// insertion order with at most one entry per ticker and no zero entries.
type Wallet struct {
	Metadata *vestd.Metadata `json:"metadata"`
	Coins    []Coin          `json:"coins"`
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Validate() error {
	if err := w.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	seen := make(map[string]struct{}, len(w.Coins))
	for i, c := range w.Coins {
		if err := c.Validate(); err != nil {
			return errors.Field("Coins", err, "coin %d", i)
		}
		if c.Amount == 0 {
			return errors.Field("Coins", errors.ErrInvalidAmount, "zero amount of %s", c.Ticker)
		}
		if _, ok := seen[c.Ticker]; ok {
			return errors.Field("Coins", errors.ErrDuplicate, "ticker %s", c.Ticker)
		}
		seen[c.Ticker] = struct{}{}
	}
	return nil
}

func (w *Wallet) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, w)
}

// Balance returns the amount of given token held by this wallet.
func (w *Wallet) Balance(ticker string) uint64 {
	for _, c := range w.Coins {
		if c.Ticker == ticker {
			return c.Amount
		}
	}
	return 0
}

// add increases the balance of given token.
func (w *Wallet) add(ticker string, amount uint64) error {
	for i, c := range w.Coins {
		if c.Ticker != ticker {
			continue
		}
		if c.Amount+amount < c.Amount {
			return errors.Wrapf(errors.ErrOverflow, "%s balance", ticker)
		}
		w.Coins[i].Amount += amount
		return nil
	}
	if amount > 0 {
		w.Coins = append(w.Coins, Coin{Ticker: ticker, Amount: amount})
	}
	return nil
}

// subtract decreases the balance of given token. Empty entries are removed.
func (w *Wallet) subtract(ticker string, amount uint64) error {
	for i, c := range w.Coins {
		if c.Ticker != ticker {
			continue
		}
		if c.Amount < amount {
			break
		}
		w.Coins[i].Amount -= amount
		if w.Coins[i].Amount == 0 {
			w.Coins = append(w.Coins[:i], w.Coins[i+1:]...)
		}
		return nil
	}
	if amount == 0 {
		return nil
	}
	return errors.Wrapf(errors.ErrInsufficientAmount, "%s balance", ticker)
}

// Token is a registry entry describing a token that wallets may hold.
type Token struct {
	Metadata *vestd.Metadata `json:"metadata"`
	Name     string          `json:"name"`
	Decimals uint32          `json:"decimals"`
}

var _ orm.Model = (*Token)(nil)

func (t *Token) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", t.Metadata.Validate())
	if t.Name == "" {
		errs = errors.AppendField(errs, "Name", errors.ErrEmpty)
	}
	if t.Decimals > MaxDecimals {
		errs = errors.Append(errs, errors.Field("Decimals", errors.ErrInvalidInput, "must not be greater than %d", MaxDecimals))
	}
	return errs
}

func (t *Token) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(t)
}

func (t *Token) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, t)
}

// NewWalletBucket returns a bucket storing wallets by address.
func NewWalletBucket() orm.ModelBucket {
	return orm.NewModelBucket("wallets")
}

// NewTokenBucket returns a bucket storing the token registry by ticker.
func NewTokenBucket() orm.ModelBucket {
	return orm.NewModelBucket("tokens")
}

// RegisterQuery registers the wallet and token buckets for querying.
func RegisterQuery(qr vestd.QueryRouter) {
	NewWalletBucket().Register("wallets", qr)
	NewTokenBucket().Register("tokens", qr)
}
