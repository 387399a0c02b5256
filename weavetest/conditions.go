package weavetest

import (
	"crypto/rand"

	"github.com/iov-one/vestd"
)

// NewCondition returns a random condition that can be used to represent a
// signer in tests. Each call returns a different value.
func NewCondition() vestd.Condition {
	data := make([]byte, 16)
	if _, err := rand.Read(data); err != nil {
		panic(err)
	}
	return vestd.NewCondition("sigs", "ed25519", data)
}

// NewAddress returns the address of a new random condition.
func NewAddress() vestd.Address {
	return NewCondition().Address()
}
