/*
Package app contains the ABCI application glue: routing transactions to
handlers, chaining decorators, managing the committed and cached stores and
answering queries.
*/
package app
