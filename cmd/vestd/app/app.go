/*
Package app links together all the various components
to construct the vestd app.
*/
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/app"
	"github.com/iov-one/vestd/store/iavl"
	"github.com/iov-one/vestd/x"
	"github.com/iov-one/vestd/x/auth"
	"github.com/iov-one/vestd/x/cash"
	"github.com/iov-one/vestd/x/utils"
	"github.com/iov-one/vestd/x/vesting"
	"github.com/prometheus/client_golang/prometheus"
)

// Authenticator returns the signer authentication of the tx envelope.
func Authenticator() x.Authenticator {
	return x.ChainAuth(auth.Authenticate{})
}

// Chain returns a chain of decorators, to handle logging, metrics,
// recovery, authentication and atomicity. Metrics are skipped when reg
// is nil.
func Chain(reg prometheus.Registerer) app.Decorators {
	var metrics vestd.Decorator
	if reg != nil {
		metrics = utils.NewMetrics(reg)
	}
	return app.ChainDecorators(
		utils.NewLogging(),
		metrics,
		utils.NewRecovery(),
		auth.NewDecorator(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		// on DeliverTx, a failed claim leaves no partial state
		utils.NewSavepoint().OnDeliver(),
	)
}

// CashController returns the custody controller backed by the wallet
// and token buckets.
func CashController() cash.BaseController {
	return cash.NewController(cash.NewWalletBucket(), cash.NewTokenBucket())
}

// Router returns a default router, dispatching vesting messages.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	vesting.RegisterRoutes(r, authFn, CashController())
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/vesting/pools", "/wallets" and "/tokens"
func QueryRouter() vestd.QueryRouter {
	r := vestd.NewQueryRouter()
	r.RegisterAll(
		vesting.RegisterQuery,
		cash.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(reg prometheus.Registerer) vestd.Handler {
	authFn := Authenticator()
	return Chain(reg).WithHandler(Router(authFn))
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h vestd.Handler, tx vestd.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	ctx := context.Background()
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), ctx)
	return app.NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path. An empty path keeps the data in memory.
func CommitKVStore(dbPath string) (vestd.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.NewCommitStore("", "vestd"), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("invalid database name: %s", dbPath)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
