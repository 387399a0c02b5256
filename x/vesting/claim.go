package vesting

import (
	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/errors"
)

// Transfer is the instruction produced by a successful claim. The custody
// collaborator must move Amount of Ticker from the custody account to the
// recipient as part of the same atomic state change.
type Transfer struct {
	From   vestd.Address
	To     vestd.Address
	Ticker string
	Amount uint64
}

// Claim pays out everything the beneficiary may claim at now. The pool is
// updated only when the claim succeeds, and only after the solvency of the
// resulting ledger was verified.
func Claim(p *Pool, beneficiary vestd.Address, now vestd.UnixTime) (*Transfer, error) {
	if p.State != PoolReleased {
		return nil, errors.Wrapf(ErrClaimNotAllowed, "pool is %s", p.State)
	}

	next := p.Copy()
	b, err := next.Beneficiary(beneficiary)
	if err != nil {
		return nil, err
	}
	amount, elapsed := b.ClaimableNow(next.ReleasedAt, now)
	if amount == 0 {
		return nil, errors.Wrap(ErrClaimNotAllowed, "nothing vested since the last claim")
	}
	if amount > next.CustodyBalance {
		return nil, errors.Wrapf(ErrInsolvent, "claim of %d exceeds custody balance of %d", amount, next.CustodyBalance)
	}
	if err := b.applyClaim(amount, elapsed); err != nil {
		return nil, err
	}
	next.CustodyBalance -= amount
	if err := next.CheckSolvency(); err != nil {
		return nil, err
	}

	*p = *next
	return &Transfer{
		From:   p.Custody,
		To:     beneficiary,
		Ticker: p.Ticker,
		Amount: amount,
	}, nil
}
