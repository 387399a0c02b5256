/*
Package errors implements custom error interfaces for vestd.

Every error returned by a handler must wrap one of the root errors
registered in this package or by an extension. A root error carries an ABCI
code, a stable name that clients may match on, and a short description.

	err := errors.Wrapf(errors.ErrNotFound, "pool %q", ticker)
	if errors.ErrNotFound.Is(err) {
		...
	}

Validation code should use Field and AppendField so that a client can learn
which attribute of a message was rejected.
*/
package errors
