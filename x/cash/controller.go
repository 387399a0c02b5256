package cash

import (
	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/errors"
	"github.com/iov-one/vestd/orm"
)

// Balancer reads balances and token metadata.
type Balancer interface {
	// Balance returns the amount of given token held by the address.
	// Unknown addresses hold nothing.
	Balance(db vestd.ReadOnlyKVStore, addr vestd.Address, ticker string) (uint64, error)
	// Decimals returns the display precision of a registered token.
	Decimals(db vestd.ReadOnlyKVStore, ticker string) (uint32, error)
}

// CoinMover moves coins between wallets.
type CoinMover interface {
	// MoveCoins moves the given amount from src to dst.
	// If src doesn't have sufficient coins, it fails and nothing changes.
	MoveCoins(db vestd.KVStore, src, dst vestd.Address, ticker string, amount uint64) error
}

// CoinMinter creates new coins, used at genesis.
type CoinMinter interface {
	CoinMint(db vestd.KVStore, dst vestd.Address, ticker string, amount uint64) error
}

// Controller is the functionality needed by other extensions to hold and
// move funds.
type Controller interface {
	Balancer
	CoinMover
	CoinMinter
}

// BaseController is the default Controller implementation.
type BaseController struct {
	wallets orm.ModelBucket
	tokens  orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller using the given buckets.
func NewController(wallets, tokens orm.ModelBucket) BaseController {
	return BaseController{
		wallets: wallets,
		tokens:  tokens,
	}
}

func (c BaseController) Balance(db vestd.ReadOnlyKVStore, addr vestd.Address, ticker string) (uint64, error) {
	w, err := c.wallet(db, addr)
	if err != nil {
		return 0, err
	}
	return w.Balance(ticker), nil
}

func (c BaseController) Decimals(db vestd.ReadOnlyKVStore, ticker string) (uint32, error) {
	t, err := c.token(db, ticker)
	if err != nil {
		return 0, err
	}
	return t.Decimals, nil
}

func (c BaseController) MoveCoins(db vestd.KVStore, src, dst vestd.Address, ticker string, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "non-positive transfer")
	}
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := dst.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if _, err := c.token(db, ticker); err != nil {
		return err
	}

	sender, err := c.wallet(db, src)
	if err != nil {
		return err
	}
	if err := sender.subtract(ticker, amount); err != nil {
		return err
	}
	if src.Equals(dst) {
		return nil
	}
	recipient, err := c.wallet(db, dst)
	if err != nil {
		return err
	}
	if err := recipient.add(ticker, amount); err != nil {
		return err
	}

	// All checks passed, nothing below may fail on a business rule.
	if err := c.save(db, src, sender); err != nil {
		return err
	}
	return c.save(db, dst, recipient)
}

func (c BaseController) CoinMint(db vestd.KVStore, dst vestd.Address, ticker string, amount uint64) error {
	if err := dst.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if _, err := c.token(db, ticker); err != nil {
		return err
	}
	w, err := c.wallet(db, dst)
	if err != nil {
		return err
	}
	if err := w.add(ticker, amount); err != nil {
		return err
	}
	return c.save(db, dst, w)
}

// wallet loads the wallet of given address. A missing wallet is returned
// empty.
func (c BaseController) wallet(db vestd.ReadOnlyKVStore, addr vestd.Address) (*Wallet, error) {
	var w Wallet
	switch err := c.wallets.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{Metadata: &vestd.Metadata{Schema: 1}}, nil
	default:
		return nil, errors.Wrap(err, "cannot load wallet")
	}
}

func (c BaseController) save(db vestd.KVStore, addr vestd.Address, w *Wallet) error {
	if len(w.Coins) == 0 {
		if err := c.wallets.Has(db, addr); errors.ErrNotFound.Is(err) {
			return nil
		}
		return c.wallets.Delete(db, addr)
	}
	return c.wallets.Put(db, addr, w)
}

func (c BaseController) token(db vestd.ReadOnlyKVStore, ticker string) (*Token, error) {
	var t Token
	if err := c.tokens.One(db, []byte(ticker), &t); err != nil {
		return nil, errors.Wrapf(err, "token %q", ticker)
	}
	return &t, nil
}
