package server

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	appStateKey = "app_state"
	flagHome    = "home"
)

// GenOptions can parse command-line and flag to
// generate default app_options for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd writes the app_state generated by gen into the genesis file
// found under the home directory. A minimal genesis file is created
// when none exists yet, so that `tendermint init` may run afterwards
// against the same home.
func InitCmd(gen GenOptions, logger log.Logger) *cobra.Command {
	cmd := initCmd{
		gen:    gen,
		logger: logger,
	}
	return &cobra.Command{
		Use:   "init [ticker] [admin address]",
		Short: "Initialize app options in genesis file",
		Args:  cobra.MaximumNArgs(2),
		RunE:  cmd.run,
	}
}

type initCmd struct {
	gen    GenOptions
	logger log.Logger
}

func (c initCmd) run(_ *cobra.Command, args []string) error {
	home := viper.GetString(flagHome)
	genFile := filepath.Join(home, "config", "genesis.json")
	if err := c.ensureGenesis(genFile); err != nil {
		return err
	}

	options, err := c.gen(args)
	if err != nil {
		return err
	}
	if err := addGenesisOptions(genFile, options); err != nil {
		return err
	}
	c.logger.Info("Wrote app state", "path", genFile)
	return nil
}

func (c initCmd) ensureGenesis(genFile string) error {
	if fileExists(genFile) {
		c.logger.Info("Found genesis file", "path", genFile)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(genFile), 0755); err != nil {
		return err
	}
	doc := genesisDoc{}
	var err error
	if doc["chain_id"], err = json.Marshal(fmt.Sprintf("vestd-chain-%v", cmn.RandStr(6))); err != nil {
		return err
	}
	if doc["genesis_time"], err = json.Marshal(time.Now().UTC()); err != nil {
		return err
	}
	if err := writeGenesis(genFile, doc); err != nil {
		return err
	}
	c.logger.Info("Generated genesis file", "path", genFile)
	return nil
}

func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

// genesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type genesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return err
	}

	var doc genesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return err
	}
	doc[appStateKey] = options
	return writeGenesis(filename, doc)
}

func writeGenesis(filename string, doc genesisDoc) error {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filename, out, 0600)
}
