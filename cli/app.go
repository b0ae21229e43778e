// Package cli wires the engine into runnable commands.
package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/keelvm/keel/config"
	"github.com/keelvm/keel/pkg/core"
	"github.com/keelvm/keel/pkg/core/block"
	"github.com/keelvm/keel/pkg/core/dao"
	"github.com/keelvm/keel/pkg/core/storage"
	"github.com/keelvm/keel/pkg/core/transaction"
	"github.com/keelvm/keel/pkg/encoding/fixedn"
	"github.com/keelvm/keel/pkg/util"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// NewApp creates the keel CLI application.
func NewApp() *cli.App {
	app := cli.NewApp()
	app.Name = "keel"
	app.Version = config.Version
	app.Usage = "deterministic contract VM interop engine"
	app.Commands = []cli.Command{
		{
			Name:      "run",
			Usage:     "execute a hex-encoded script against the configured store",
			ArgsUsage: "<script-file>",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "config, c",
					Usage: "path to the YAML configuration",
				},
				cli.Int64Flag{
					Name:  "gas",
					Usage: "execution gas budget (0 means unlimited)",
				},
			},
			Action: runScript,
		},
		{
			Name:      "dump",
			Usage:     "print all storage items of a contract",
			ArgsUsage: "<contract-hash>",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "config, c",
					Usage: "path to the YAML configuration",
				},
			},
			Action: dumpStorage,
		},
	}
	return app
}

func loadConfig(ctx *cli.Context) (config.Config, error) {
	if path := ctx.String("config"); path != "" {
		return config.Load(path)
	}
	return config.Default(), nil
}

func runScript(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("script file is required", 1)
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	data, err := os.ReadFile(ctx.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	script, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid script hex: %w", err), 1)
	}

	store, err := storage.NewStore(cfg.DB)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer store.Close()

	log, err := zap.NewProduction()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer log.Sync()

	gas := ctx.Int64("gas")
	if gas == 0 {
		gas = cfg.Limits.GasLimit
	}
	exec := core.NewExecutorWithLimits(store, cfg.Limits, log)
	height, _ := exec.DAO().GetCurrentBlockHeight()
	blk := &block.Block{
		Header: block.Header{
			Index:     height + 1,
			Timestamp: uint64(time.Now().UnixMilli()),
		},
	}
	tx := transaction.New(script, gas)
	res, err := exec.Execute(blk, tx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	out := map[string]interface{}{
		"state":       res.State.String(),
		"gasconsumed": fixedn.Fixed8(res.GasConsumed).String(),
		"events":      len(res.Events),
	}
	if res.FaultError != nil {
		out["exception"] = res.FaultError.Error()
	}
	if err := json.NewEncoder(os.Stdout).Encode(out); err != nil {
		return cli.NewExitError(err, 1)
	}
	if res.FaultError == nil {
		if _, err := exec.Persist(); err != nil {
			return cli.NewExitError(err, 1)
		}
	}
	return nil
}

func dumpStorage(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("contract hash is required", 1)
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	hash, err := util.Uint160DecodeStringLE(ctx.Args().First())
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid contract hash: %w", err), 1)
	}

	store, err := storage.NewStore(cfg.DB)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer store.Close()

	d := dao.NewSimple(store)
	cs, err := d.GetContractState(hash)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	enc := json.NewEncoder(os.Stdout)
	d.Seek(cs.ID, storage.SeekRange{}, func(k, v []byte) bool {
		_ = enc.Encode(map[string]string{
			"key":   hex.EncodeToString(k),
			"value": hex.EncodeToString(v),
		})
		return true
	})
	return nil
}
