package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configName is the config file name without extension.
const configName = ".progy"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for progy settings.
const envPrefix = "PROGY"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// FileName is the config file written by WriteDefault.
const FileName = configName + "." + configType

// ErrConfigExists is returned by WriteDefault when the target already exists.
var ErrConfigExists = errors.New("config file already exists")

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in workdir and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath, workdir string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		if workdir == "" {
			workdir = "."
		}
		viperCfg.AddConfigPath(workdir)

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	d := Default()

	viperCfg.SetDefault("workspace.search_roots", d.Workspace.SearchRoots)
	viperCfg.SetDefault("workspace.exercises_dir", d.Workspace.ExercisesDir)
	viperCfg.SetDefault("workspace.progress_file", d.Workspace.ProgressFile)
	viperCfg.SetDefault("workspace.progress_markdown", d.Workspace.ProgressMarkdown)
	viperCfg.SetDefault("workspace.history_db", d.Workspace.HistoryDB)
	viperCfg.SetDefault("workspace.temp_dir", d.Workspace.TempDir)

	viperCfg.SetDefault("toolchain.profile", d.Toolchain.Profile)
	viperCfg.SetDefault("toolchain.compiler", d.Toolchain.Compiler)
	viperCfg.SetDefault("toolchain.test_flag", d.Toolchain.TestFlag)
	viperCfg.SetDefault("toolchain.extension", d.Toolchain.Extension)
	viperCfg.SetDefault("toolchain.marker", d.Toolchain.Marker)
	viperCfg.SetDefault("toolchain.min_version", d.Toolchain.MinVersion)

	viperCfg.SetDefault("log.level", d.Log.Level)
	viperCfg.SetDefault("log.format", d.Log.Format)
}

// WriteDefault writes the default configuration as YAML into dir and
// returns the file path. An existing file is only replaced when force is set.
func WriteDefault(dir string, force bool) (string, error) {
	path := filepath.Join(dir, FileName)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}
