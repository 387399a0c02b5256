package app

import (
	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/errors"
	"github.com/iov-one/vestd/x/auth"
	"github.com/iov-one/vestd/x/vesting"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

func init() {
	cdc.RegisterInterface((*vestd.Msg)(nil), nil)
	cdc.RegisterConcrete(&vesting.InitializeMsg{}, "vestd/vesting/InitializeMsg", nil)
	cdc.RegisterConcrete(&vesting.ReleaseMsg{}, "vestd/vesting/ReleaseMsg", nil)
	cdc.RegisterConcrete(&vesting.ClaimMsg{}, "vestd/vesting/ClaimMsg", nil)
}

// Tx is the envelope of every transaction processed by vestd. The signer
// condition is trusted as verified by the host.
type Tx struct {
	Signer vestd.Condition `json:"signer"`
	Msg    vestd.Msg       `json:"msg"`
}

var _ auth.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (vestd.Tx, error) {
	tx := new(Tx)
	err := tx.Unmarshal(bz)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the carried message.
func (tx *Tx) GetMsg() (vestd.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrInvalidMsg, "empty transaction")
	}
	return tx.Msg, nil
}

// GetSigner returns the condition that signed this transaction.
func (tx *Tx) GetSigner() vestd.Condition {
	return tx.Signer
}

// Marshal serializes the transaction.
func (tx *Tx) Marshal() ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return bz, nil
}

// Unmarshal deserializes the transaction.
func (tx *Tx) Unmarshal(raw []byte) error {
	if err := cdc.UnmarshalBinaryBare(raw, tx); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return nil
}
