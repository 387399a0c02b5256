package cash

import (
	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/errors"
)

// GenesisAccount is used to parse the json from genesis file
// use vestd.Address, so address in hex, not base64
type GenesisAccount struct {
	Address vestd.Address `json:"address"`
	Coins   []Coin        `json:"coins"`
}

// GenesisToken declares a token in the genesis file.
type GenesisToken struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Decimals uint32 `json:"decimals"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ vestd.Initializer = Initializer{}

// FromGenesis will parse the token registry and initial account info from
// genesis and save it to the database. Tokens are loaded first so that
// every account balance refers to a registered token.
func (Initializer) FromGenesis(opts vestd.Options, kv vestd.KVStore) error {
	var tokens []GenesisToken
	if err := opts.ReadOptions("tokens", &tokens); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	tokenBucket := NewTokenBucket()
	for i, t := range tokens {
		if !IsTicker(t.Ticker) {
			return errors.Wrapf(errors.ErrInvalidInput, "token %d: ticker %q", i, t.Ticker)
		}
		token := Token{
			Metadata: &vestd.Metadata{Schema: 1},
			Name:     t.Name,
			Decimals: t.Decimals,
		}
		if err := tokenBucket.Put(kv, []byte(t.Ticker), &token); err != nil {
			return errors.Wrapf(err, "token %s", t.Ticker)
		}
	}

	var accts []GenesisAccount
	if err := opts.ReadOptions("cash", &accts); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	ctrl := NewController(NewWalletBucket(), tokenBucket)
	for _, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrap(err, "genesis account")
		}
		for _, c := range acct.Coins {
			if err := ctrl.CoinMint(kv, acct.Address, c.Ticker, c.Amount); err != nil {
				return errors.Wrapf(err, "account %s", acct.Address)
			}
		}
	}
	return nil
}
