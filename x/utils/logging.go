package utils

import (
	"time"

	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/errors"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ vestd.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> info, success -> debug
func (r Logging) Check(ctx vestd.Context, store vestd.KVStore, tx vestd.Tx, next vestd.Checker) (*vestd.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx vestd.Context, store vestd.KVStore, tx vestd.Tx, next vestd.Deliverer) (*vestd.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx vestd.Context, tx vestd.Tx, start time.Time, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := vestd.GetLogger(ctx).With(
		"path", vestd.GetPath(tx),
		"duration", delta/time.Microsecond)

	// Although message can be empty, we still want to emit a log entry
	// because it contains other relevant information beside the message.
	switch {
	case err != nil:
		logger.With("err", err, "code", errors.Name(err)).Error(msg)
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
