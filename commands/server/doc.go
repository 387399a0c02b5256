/*
Package server provides the init and start commands shared by application
daemons.
*/
package server
