/*
Package vesting implements a vesting ledger and claim engine.

An administrator deposits a pooled balance of one token into a custody
account and registers beneficiaries, each with their own schedule: a share
unlocked at the token generation event (TGE), a lockup period and a linear
vesting duration split into equal periods. Once the administrator releases
the pool the clock starts and each beneficiary may periodically claim what
has vested so far.

The engine only decides how much may move. Executing the transfer is the
job of a CustodyController, implemented by x/cash in this application.
*/
package vesting
