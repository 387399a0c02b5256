package weavetest

import "github.com/iov-one/vestd"

// Tx represents a single message transaction. It is never serialized, tests
// pass it directly to handlers.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg vestd.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ vestd.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (vestd.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Unmarshal([]byte) error {
	panic("not implemented")
}

func (tx *Tx) Marshal() ([]byte, error) {
	panic("not implemented")
}

// Msg is a message that carries no data, useful to test routing.
type Msg struct {
	// Path returned by the path method, consumed by the router.
	RoutePath string
	// Serialized represents the serialized form of this message.
	Serialized []byte
	// Err if set is returned by any method call.
	Err error
}

var _ vestd.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}

func (m *Msg) Unmarshal(b []byte) error {
	m.Serialized = b
	return m.Err
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}
