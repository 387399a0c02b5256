package vesting

import (
	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/errors"
	"github.com/iov-one/vestd/gconf"
)

const (
	packageName = "vesting"

	// DefaultMaxBeneficiaries is used when no configuration was stored.
	DefaultMaxBeneficiaries = 50
)

// Configuration holds the limits that apply to all pools.
type Configuration struct {
	Metadata *vestd.Metadata `json:"metadata"`
	// MaxBeneficiaries limits the number of beneficiaries of a single pool.
	// Zero disables the limit.
	MaxBeneficiaries uint32 `json:"max_beneficiaries"`
	// ReleaseTimelock is the minimal time between initialization and
	// release of a pool.
	ReleaseTimelock vestd.UnixDuration `json:"release_timelock"`
}

var _ gconf.Configuration = (*Configuration)(nil)

// DefaultConfiguration returns the configuration used when none was stored.
func DefaultConfiguration() Configuration {
	return Configuration{
		Metadata:         &vestd.Metadata{Schema: 1},
		MaxBeneficiaries: DefaultMaxBeneficiaries,
	}
}

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	if c.ReleaseTimelock < 0 || c.ReleaseTimelock > maxScheduleSpan {
		errs = errors.Append(errs, errors.Field("ReleaseTimelock", errors.ErrInvalidInput, "must be within [0, %s]", maxScheduleSpan))
	}
	return errs
}

func (c *Configuration) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, c)
}

// SaveConfiguration validates and stores the configuration.
func SaveConfiguration(db gconf.Store, c Configuration) error {
	return gconf.Save(db, packageName, &c)
}

// LoadConfiguration returns the stored configuration, or the default one if
// none was stored.
func LoadConfiguration(db gconf.ReadStore) (Configuration, error) {
	var c Configuration
	switch err := gconf.Load(db, packageName, &c); {
	case err == nil:
		return c, nil
	case errors.ErrNotFound.Is(err):
		return DefaultConfiguration(), nil
	default:
		return c, errors.Wrap(err, "load configuration")
	}
}
