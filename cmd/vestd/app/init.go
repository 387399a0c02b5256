package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/vestd"
	"github.com/iov-one/vestd/x/cash"
	"github.com/iov-one/vestd/x/vesting"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	defaultTicker   = "IOV"
	defaultDecimals = 9
	// devSupply is the amount of smallest units minted for the dev
	// administrator, one billion whole tokens.
	devSupply = 1000000000 * 1000000000
)

// GenInitOptions will produce some basic options for one rich
// administrator account and the default vesting configuration,
// to use for dev mode.
//
// The first argument is the token ticker, the second is the
// administrator address. When no address is given a new dev condition
// is generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := defaultTicker
	if len(args) > 0 {
		ticker = args[0]
		if !cash.IsTicker(ticker) {
			return nil, fmt.Errorf("invalid ticker %s", ticker)
		}
	}

	var admin vestd.Address
	if len(args) > 1 {
		addr, err := vestd.ParseAddress(args[1])
		if err != nil {
			return nil, err
		}
		admin = addr
	} else {
		cond := GenerateDevCondition()
		admin = cond.Address()
		fmt.Println(cond.String())
	}

	conf := vesting.DefaultConfiguration()
	opts := map[string]interface{}{
		"tokens": []cash.GenesisToken{
			{Ticker: ticker, Name: ticker, Decimals: defaultDecimals},
		},
		"cash": []cash.GenesisAccount{
			{Address: admin, Coins: []cash.Coin{{Ticker: ticker, Amount: devSupply}}},
		},
		"conf": map[string]interface{}{
			"vesting": conf,
		},
	}
	return json.MarshalIndent(opts, "", "  ")
}

// GenerateDevCondition returns a random condition that can be used as
// the transaction signer in dev mode.
func GenerateDevCondition() vestd.Condition {
	return vestd.NewCondition("dev", "admin", cmn.RandBytes(16))
}

// GenerateApp is used to create a stub for server/start.go command.
// Metrics are registered with reg when it is not nil.
func GenerateApp(home string, logger log.Logger, debug bool, reg prometheus.Registerer) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "vestd.db")
	}

	application, err := Application("vestd", Stack(reg), TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(vestd.ChainInitializers(
		cash.Initializer{},
		vesting.Initializer{},
	))

	// set the logger and return
	application.WithLogger(logger)
	return application, nil
}
