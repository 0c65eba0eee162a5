// Command kyber generates Kyber key pairs, encapsulates and decapsulates
// shared secrets, runs self tests and renders a benchmark report.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"kyber-kem/config"
	"kyber-kem/params"
)

const (
	flagConfig   = "config"
	flagParams   = "params"
	flagKeyDir   = "key-dir"
	flagLogLevel = "log-level"
	flagLogJSON  = "log-json"
	flagSeed     = "seed"
)

var log = zerolog.Nop()

func newApp() *cli.App {
	return &cli.App{
		Name:  "kyber",
		Usage: "Kyber key encapsulation (round 3)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  flagConfig,
				Usage: "settings file (YAML or JSON)",
			},
			&cli.StringFlag{
				Name:    flagParams,
				Aliases: []string{"p"},
				Usage:   "parameter set: Kyber512, Kyber768 or Kyber1024",
				EnvVars: []string{"KYBER_PARAMS"},
			},
			&cli.StringFlag{
				Name:    flagKeyDir,
				Usage:   "directory holding public.json and private.json",
				EnvVars: []string{"KYBER_KEY_DIR"},
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Usage: "debug, info, warn or error",
			},
			&cli.BoolFlag{
				Name:  flagLogJSON,
				Usage: "log as JSON instead of console text",
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := settings(c)
			if err != nil {
				return err
			}
			log = createLogger(cfg.LogLevel, c.Bool(flagLogJSON))
			return nil
		},
		Commands: []*cli.Command{
			keygenCommand(),
			encapsCommand(),
			decapsCommand(),
			selftestCommand(),
			reportCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		l := createLogger("info", false)
		l.Error().Err(err).Msg("kyber failed")
		os.Exit(1)
	}
}

func createLogger(level string, json bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	var w = colorable.NewColorable(os.Stderr)
	if !json {
		w = zerolog.ConsoleWriter{Out: colorable.NewColorable(os.Stderr), TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(lvl)
}

// settings loads the config file and applies flag and environment overrides.
func settings(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String(flagConfig))
	if err != nil {
		return cfg, err
	}
	if c.IsSet(flagParams) {
		cfg.Params = c.String(flagParams)
	}
	if c.IsSet(flagKeyDir) {
		cfg.KeyDir = c.String(flagKeyDir)
	}
	if c.IsSet(flagLogLevel) {
		cfg.LogLevel = c.String(flagLogLevel)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func paramSet(c *cli.Context) (config.Config, params.Set, error) {
	cfg, err := settings(c)
	if err != nil {
		return cfg, params.Set{}, err
	}
	ps, err := cfg.ParamSet()
	if err != nil {
		return cfg, ps, fmt.Errorf("resolve parameter set: %w", err)
	}
	return cfg, ps, nil
}
