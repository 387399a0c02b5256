package vesting

import (
	"github.com/iov-one/vestd/errors"
)

// Vesting extension reserves ABCI codes 1100 to 1119.
var (
	ErrInvalidSender        = errors.Register(1100, "InvalidSender", "sender is not the pool authority")
	ErrClaimNotAllowed      = errors.Register(1101, "ClaimNotAllowed", "claim not allowed")
	ErrBeneficiaryNotFound  = errors.Register(1102, "BeneficiaryNotFound", "beneficiary not found")
	ErrAlreadyInitialized   = errors.Register(1103, "AlreadyInitialized", "pool already initialized")
	ErrInvalidSchedule      = errors.Register(1104, "InvalidSchedule", "invalid schedule")
	ErrInsufficientDeposit  = errors.Register(1105, "InsufficientDeposit", "deposit does not cover allocations")
	ErrTooManyBeneficiaries = errors.Register(1106, "TooManyBeneficiaries", "too many beneficiaries")
	ErrInvalidDecimals      = errors.Register(1107, "InvalidDecimals", "decimals do not match the token")
	ErrTimelockNotExpired   = errors.Register(1108, "TimelockNotExpired", "release timelock not expired")
	ErrInsolvent            = errors.Register(1109, "Insolvent", "pool insolvent")
	ErrAlreadyReleased      = errors.Register(1110, "AlreadyReleased", "pool already released")
)
