package vesting

import (
	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/errors"
	"github.com/iov-one/vestd/gconf"
)

// Initializer fulfils the Initializer interface to load the configuration
// from the genesis file.
type Initializer struct{}

var _ vestd.Initializer = Initializer{}

// FromGenesis stores the "conf.vesting" section. Without it the default
// configuration applies.
func (Initializer) FromGenesis(opts vestd.Options, kv vestd.KVStore) error {
	var conf Configuration
	err := gconf.InitConfig(kv, opts, packageName, &conf)
	if err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "init vesting configuration")
	}
	return nil
}
