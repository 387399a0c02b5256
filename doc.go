/*
Package vestd defines the interfaces used throughout the vesting daemon, such
as storage, transactions, handlers and the request context. It also contains
the small value types shared by all extensions: conditions and addresses,
unix time, exact fractions and object metadata.

Look into this package to get a brief overview of the design decisions made
around interfaces and extension building blocks. The vesting ledger itself
lives in x/vesting, the default custody implementation in x/cash.
*/
package vestd
