/*
Package utils provides decorators shared by every handler of the
application: atomic execution of transactions, panic recovery, logging and
prometheus instrumentation.
*/
package utils
