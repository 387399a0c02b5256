package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored. When no
// error remains nil is returned, a single error is returned as it is.
//
// Validation code uses this to report every problem of a message at once.
func Append(errs ...error) error {
	var flat []error
	for _, err := range errs {
		if isNilErr(err) {
			continue
		}
		if m, ok := err.(*multiErr); ok {
			flat = append(flat, m.errs...)
			continue
		}
		flat = append(flat, err)
	}
	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	default:
		return &multiErr{errs: flat}
	}
}

// multiErr is a collection of errors. The first member decides the ABCI code
// of the whole group, consistent with a fail-fast approach.
type multiErr struct {
	errs []error
}

func (e *multiErr) Error() string {
	points := make([]string, len(e.errs))
	for i, err := range e.errs {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n", len(e.errs), strings.Join(points, "\n\t"))
}

// Unpack returns all errors grouped by this instance.
func (e *multiErr) Unpack() []error {
	return e.errs
}

func (e *multiErr) ABCICode() uint32 {
	return abciCode(e.errs[0])
}

type unpacker interface {
	Unpack() []error
}
