package vesting

import (
	"fmt"

	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/errors"
	"github.com/iov-one/vestd/x/cash"
)

const (
	pathInitializeMsg = "vesting/initialize"
	pathReleaseMsg    = "vesting/release"
	pathClaimMsg      = "vesting/claim"
)

var _ vestd.Msg = (*InitializeMsg)(nil)
var _ vestd.Msg = (*ReleaseMsg)(nil)
var _ vestd.Msg = (*ClaimMsg)(nil)

// InitializeMsg creates the pool of a token. The signer becomes the pool
// authority and funds the deposit.
type InitializeMsg struct {
	Metadata *vestd.Metadata `json:"metadata"`
	Ticker   string          `json:"ticker"`
	Deposit  uint64          `json:"deposit"`
	// Decimals must match the precision of the registered token.
	Decimals      uint32  `json:"decimals"`
	Beneficiaries []Grant `json:"beneficiaries"`
}

// ReleaseMsg starts the vesting of the pool of a token.
type ReleaseMsg struct {
	Metadata *vestd.Metadata `json:"metadata"`
	Ticker   string          `json:"ticker"`
}

// ClaimMsg pays out the vested tokens of the signer. When Destination is
// not set, tokens are sent to the signer.
type ClaimMsg struct {
	Metadata    *vestd.Metadata `json:"metadata"`
	Ticker      string          `json:"ticker"`
	Destination vestd.Address   `json:"destination,omitempty"`
}

//--------- Path routing --------

// Path fulfills vestd.Msg interface to allow routing
func (InitializeMsg) Path() string {
	return pathInitializeMsg
}

// Path fulfills vestd.Msg interface to allow routing
func (ReleaseMsg) Path() string {
	return pathReleaseMsg
}

// Path fulfills vestd.Msg interface to allow routing
func (ClaimMsg) Path() string {
	return pathClaimMsg
}

//--------- Validation --------

// Validate makes sure that this is sensible. Checks that require the pool
// or the configuration are done by the handler.
func (m *InitializeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Ticker", validateTicker(m.Ticker))
	if m.Deposit == 0 {
		errs = errors.Append(errs, errors.Field("Deposit", errors.ErrInvalidAmount, "must be positive"))
	}
	if m.Decimals > cash.MaxDecimals {
		errs = errors.Append(errs, errors.Field("Decimals", ErrInvalidDecimals, "at most %d", cash.MaxDecimals))
	}
	if len(m.Beneficiaries) == 0 {
		errs = errors.AppendField(errs, "Beneficiaries", errors.ErrEmpty)
	}
	for i, g := range m.Beneficiaries {
		errs = errors.AppendField(errs, fmt.Sprintf("Beneficiaries.%d", i), g.Validate())
	}
	return errs
}

// Validate makes sure that this is sensible
func (m *ReleaseMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Ticker", validateTicker(m.Ticker))
	return errs
}

// Validate makes sure that this is sensible
func (m *ClaimMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Ticker", validateTicker(m.Ticker))
	if m.Destination != nil {
		errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	}
	return errs
}

func validateTicker(ticker string) error {
	if !cash.IsTicker(ticker) {
		return errors.Wrapf(errors.ErrInvalidInput, "invalid ticker %q", ticker)
	}
	return nil
}

//--------- Serialization --------

func (m *InitializeMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *InitializeMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *ReleaseMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ReleaseMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *ClaimMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ClaimMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}
