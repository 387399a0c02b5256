/*
Package cash is the default custody implementation: a registry of known
tokens and their display precision, and wallets holding balances of those
tokens per address.

Other extensions move funds through the Controller. All changes are written
to the store passed in, so a failed transaction that is rolled back by the
savepoint decorator leaves no partial transfer behind.
*/
package cash
