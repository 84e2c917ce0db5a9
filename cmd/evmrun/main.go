// Command evmrun loads a bytecode program and drives it through the
// interpreter, one call environment at a time, against a selectable
// storage backend.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/eth2030/eth2030/core/state"
	"github.com/eth2030/eth2030/core/vm"
	"github.com/eth2030/eth2030/ioload"
	"github.com/eth2030/eth2030/log"
)

var logger = log.Default().Module("evmrun")

func main() {
	app := &cli.App{
		Name:  "evmrun",
		Usage: "run a single-contract EVM bytecode program",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "program",
				Usage:    "path to a JSON program file ({\"code\":..., \"envs\":[...]})",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "kv",
				Usage: "storage backend: memory or pebble",
				Value: "memory",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "pebble data directory (required when --kv=pebble)",
			},
			&cli.StringFlag{
				Name:  "mode",
				Usage: "invocation mode: run (commits) or call (always rolls back)",
				Value: "run",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "evmrun: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	prog, err := ioload.LoadProgram(c.String("program"))
	if err != nil {
		return err
	}

	kv, closeKV, err := openKV(c.String("kv"), c.String("db"))
	if err != nil {
		return err
	}
	defer closeKV()

	st := state.New(kv)
	machine := vm.New(st)

	mode := c.String("mode")
	envs := prog.NewEnvSource()
	for i := 0; ; i++ {
		env, ok := envs.GetNextEnv()
		if !ok {
			break
		}
		var res vm.Result
		switch mode {
		case "call":
			res = machine.Call(prog.Code, env)
		case "run":
			res = machine.Run(prog.Code, env)
		default:
			return fmt.Errorf("evmrun: unknown mode %q", mode)
		}
		logger.Info("invocation complete",
			"index", i,
			"mode", mode,
			"output", fmt.Sprintf("%x", res.Output),
			"logCount", len(res.Logs),
			"error", errString(res.Err),
		)
	}
	return nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func openKV(kind, dir string) (state.KV, func(), error) {
	switch kind {
	case "memory":
		return state.NewMemoryKV(), func() {}, nil
	case "pebble":
		if dir == "" {
			return nil, nil, fmt.Errorf("evmrun: --db is required when --kv=pebble")
		}
		db, err := state.OpenPebbleKV(dir)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("evmrun: unknown kv backend %q", kind)
	}
}
