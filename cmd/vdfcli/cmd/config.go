package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spacemeshos/smutil"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/spacemeshos/vdf/config"
)

const defaultConfigFileName = "run.toml"

var defaultConfigFile = filepath.Join(config.DefaultHomeDir, defaultConfigFileName)

// loadRunConfig reads the config file into cfg and validates the result. Flags
// set on the command line take priority over the file. Without an explicit file
// the default location is tried and silently skipped when it doesn't exist.
// Keys the config doesn't know are an error.
func loadRunConfig(flags *pflag.FlagSet, cfg *config.RunConfig, fileLocation string) error {
	changed := make(map[string]string)
	flags.Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})

	vip := viper.New()
	err := loadConfigFile(canonicalPath(fileLocation), vip)
	switch {
	case errors.Is(err, os.ErrNotExist) && fileLocation == "":
	case err != nil:
		return err
	default:
		if err := vip.UnmarshalExact(cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Ensure cli args are higher priority than the config file.
	for name, value := range changed {
		if err := flags.Set(name, value); err != nil {
			return fmt.Errorf("failed to apply flag %v: %w", name, err)
		}
	}

	cfg.Output.EventsPath = canonicalPath(cfg.Output.EventsPath)
	cfg.Output.SummaryPath = canonicalPath(cfg.Output.SummaryPath)
	cfg.Output.TablePath = canonicalPath(cfg.Output.TablePath)
	return cfg.Validate()
}

func loadConfigFile(fileLocation string, vip *viper.Viper) error {
	if fileLocation == "" {
		fileLocation = defaultConfigFile
	}
	if _, err := os.Stat(fileLocation); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	vip.SetConfigFile(fileLocation)
	if err := vip.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

func canonicalPath(path string) string {
	if path == "" {
		return ""
	}
	return smutil.GetCanonicalPath(path)
}
