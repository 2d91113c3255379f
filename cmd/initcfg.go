package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/orbitlab/planetforge/internal/config"
	"github.com/orbitlab/planetforge/internal/params"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold config.yaml and the base parameter document",
	RunE: func(cmd *cobra.Command, args []string) error {
		scaffold := config.Config{
			Server:    config.ServerConfig{Port: 8080},
			Params:    config.ParamsConfig{Path: "planet_config.json"},
			Store:     config.StoreConfig{Driver: "none"},
			RateLimit: config.RateLimitConfig{RPS: 50, Burst: 100},
			Log:       config.LogConfig{Level: "info", Format: "json"},
		}

		if err := writeScaffold("config.yaml", func() ([]byte, error) {
			return yaml.Marshal(scaffold)
		}); err != nil {
			return err
		}

		path := scaffold.Params.Path
		if !initForce {
			if _, err := os.Stat(path); err == nil {
				return eris.Errorf("%s already exists, use --force to overwrite", path)
			}
		}
		if err := params.Save(params.Defaults(), path); err != nil {
			return err
		}

		zap.L().Info("scaffolded configuration",
			zap.String("config", "config.yaml"),
			zap.String("params", path),
		)
		return nil
	},
}

func writeScaffold(path string, marshal func() ([]byte, error)) error {
	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return eris.Errorf("%s already exists, use --force to overwrite", path)
		}
	}
	data, err := marshal()
	if err != nil {
		return eris.Wrapf(err, "marshal %s", path)
	}
	return eris.Wrapf(os.WriteFile(path, data, 0o644), "write %s", path)
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing files")
	rootCmd.AddCommand(initCmd)
}
