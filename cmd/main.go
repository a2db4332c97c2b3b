package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lantern/internal/catalog"
	"lantern/internal/configuration"
	"lantern/internal/engine"
	"lantern/internal/logging"
	"lantern/internal/model"
	"lantern/internal/score/scorer"
)

const app = "lantern"

var (
	// Used for flags.
	cfgFile string
	debug   bool

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "lantern matches student profiles to careers using rules and a trained model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "configuration file (defaults and LANTERN_* variables when unset)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "verbose/debug output")
}

// application holds what every command needs to run the engine.
type application struct {
	config *configuration.AppConfig
	logger *zap.Logger
	engine *engine.Engine
}

// newApplication loads the configuration and wires the engine.
// One-shot commands log to stderr so their stdout stays machine readable.
func newApplication(logToStderr bool) (*application, error) {
	config, err := configuration.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	if debug {
		config.Logger.Level = "debug"
	}
	if logToStderr && config.Logger.File == "" {
		config.Logger.Stderr = true
	}

	logger := logging.New(config.Logger)
	zap.ReplaceGlobals(logger)

	careers := catalog.LoadFileOrFallback(config.Catalog.Path, logger)
	predictor := model.Load(config.Model.Path, model.Options{
		RemoteURL:     config.Model.RemoteURL,
		Timeout:       config.Model.Timeout,
		RatePerSecond: config.Model.RatePerSecond,
		Burst:         config.Model.Burst,
	}, logger)

	eng := engine.New(engine.Params{
		Catalog:   careers,
		Fusion:    scorer.NewCompositeScorer(config.Engine.RuleWeight, config.Engine.ModelWeight),
		Predictor: predictor,
		Workers:   config.Engine.Workers,
		Logger:    logger,
	})

	return &application{config: config, logger: logger, engine: eng}, nil
}

// Application exits with code 1 when configuration loading or a command fails.
func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", app, err)
		os.Exit(1)
	}
}
