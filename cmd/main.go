package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"photomanager/internal/config"
	"photomanager/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "photomanager",
		Short:        "Materialize the newest photos of a library into downsized JPEG files",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if configPath != "" {
				return os.Setenv("PHOTOMANAGER_CONFIG", configPath)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (overrides PHOTOMANAGER_CONFIG)")

	root.AddCommand(newListCmd(), newServeCmd(), newIndexCmd())
	return root
}

// setup loads the config and builds the logger it asks for.
func setup() (*config.Config, *logger.ZapLogger, error) {
	bootstrap := logger.MustNewLogger("text", "warn")

	cfg, err := config.Load(bootstrap)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.NewLogger(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	log.Debug("config loaded",
		zap.String("library_dir", cfg.LibraryDir),
		zap.String("media_index", cfg.MediaIndex),
		zap.String("temp_dir", cfg.TempDir),
	)
	return cfg, log, nil
}
