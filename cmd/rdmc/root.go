package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/totegamma/rdmc-registry/internal/config"
)

var (
	version = "dev"
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:           "rdmc",
	Short:         "Research data management collection registry",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./config.yaml when present)")
	rootCmd.PersistentFlags().String("server", "http://localhost:8000",
		"registry base URL used by client commands")

	rootCmd.AddCommand(serveCmd, ingestCmd, getCmd, listCmd)
}

// loadConfig reads the config file, when there is one, and layers
// environment variables and changed flags over it.
func loadConfig(v *viper.Viper) (config.Config, error) {
	conf := config.Defaults()

	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("loading config: %w", err)
		}
		conf = loaded
	}

	if err := config.BindEnv(v); err != nil {
		return config.Config{}, err
	}
	conf.Override(v)

	if err := conf.Validate(); err != nil {
		return config.Config{}, errors.Join(errors.New("invalid configuration"), err)
	}
	return conf, nil
}
