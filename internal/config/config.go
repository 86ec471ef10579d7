// Package config resolves the scanner settings from defaults, an optional
// web3scanner.yaml file, WEB3SCANNER_* environment variables and CLI flags.
package config

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	ConfigName = "web3scanner"
	EnvPrefix  = "WEB3SCANNER"

	DefaultIntermediate = "report.json"
	DefaultOutput       = "security_report.json"
)

type Slither struct {
	Bin          string `mapstructure:"bin" yaml:"bin"`
	Intermediate string `mapstructure:"intermediate" yaml:"intermediate"`
	CleanStale   bool   `mapstructure:"clean_stale" yaml:"clean_stale"`
}

type Mythril struct {
	Bin     string `mapstructure:"bin" yaml:"bin"`
	PinSolc bool   `mapstructure:"pin_solc" yaml:"pin_solc"`
}

type Config struct {
	WorkDir  string  `mapstructure:"workdir" yaml:"workdir"`
	Output   string  `mapstructure:"output" yaml:"output"`
	NoOpen   bool    `mapstructure:"no_open" yaml:"no_open"`
	LogLevel string  `mapstructure:"log_level" yaml:"log_level"`
	Slither  Slither `mapstructure:"slither" yaml:"slither"`
	Mythril  Mythril `mapstructure:"mythril" yaml:"mythril"`
}

func Default() Config {
	return Config{
		WorkDir:  ".",
		Output:   DefaultOutput,
		LogLevel: "warn",
		Slither: Slither{
			Bin:          "slither",
			Intermediate: DefaultIntermediate,
		},
		Mythril: Mythril{
			Bin: "myth",
		},
	}
}

// SetDefaults registers every key so that environment variables and bound
// flags are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("workdir", d.WorkDir)
	v.SetDefault("output", d.Output)
	v.SetDefault("no_open", d.NoOpen)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("slither.bin", d.Slither.Bin)
	v.SetDefault("slither.intermediate", d.Slither.Intermediate)
	v.SetDefault("slither.clean_stale", d.Slither.CleanStale)
	v.SetDefault("mythril.bin", d.Mythril.Bin)
	v.SetDefault("mythril.pin_solc", d.Mythril.PinSolc)
}

// Load reads file, or searches . and $HOME for web3scanner.yaml when file is
// empty. A missing search-path config is not an error; a missing explicit
// file is.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "ReadInConfig")
		}
	} else {
		log.Debugf("using config file %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "Unmarshal")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Output == "":
		return errors.New("output must not be empty")
	case c.Slither.Bin == "":
		return errors.New("slither.bin must not be empty")
	case c.Slither.Intermediate == "":
		return errors.New("slither.intermediate must not be empty")
	case c.Mythril.Bin == "":
		return errors.New("mythril.bin must not be empty")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log_level")
	}
	return nil
}

// Resolve anchors a relative path at the working directory.
func (c Config) Resolve(path string) string {
	if filepath.IsAbs(path) || c.WorkDir == "" {
		return path
	}
	return filepath.Join(c.WorkDir, path)
}

func (c Config) OutputPath() string {
	return c.Resolve(c.Output)
}

func (c Config) IntermediatePath() string {
	return c.Resolve(c.Slither.Intermediate)
}

// Dump writes the effective configuration as YAML.
func Dump(w io.Writer, c Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return errors.Wrap(err, "Encode")
	}
	return enc.Close()
}
