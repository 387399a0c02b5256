package vestd

import "github.com/iov-one/vestd/errors"

// Metadata is carried by every persisted model and message. The schema
// version allows migrating stored data in the future.
type Metadata struct {
	Schema uint32 `json:"schema"`
}

// Validate returns an error if the metadata is not set or declares an
// unknown schema version.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMetadata, "missing")
	}
	if m.Schema == 0 {
		return errors.Wrap(errors.ErrMetadata, "schema version is required")
	}
	return nil
}

// Copy returns a copy of this object.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}
