package main

import (
	"context"
	goflag "flag"
	"fmt"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"web3scanner/internal/config"
)

var (
	ConfigFile string

	v = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "web3scanner",
	Short: "web3scanner, runs slither and mythril on a solidity contract and merges their reports",
	Long:  "",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "config file (default ./web3scanner.yaml or $HOME/web3scanner.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("workdir", ".", "directory the tools run in and relative outputs land in")
	_ = v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("workdir", rootCmd.PersistentFlags().Lookup("workdir"))
}

func loadConfig() (config.Config, error) {
	return config.Load(v, ConfigFile)
}

func setupLogging() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	level, _ := log.ParseLevel(cfg.LogLevel)
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	return nil
}

func main() {
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)

	rootCmd.AddCommand(versionCommand)
	rootCmd.AddCommand(analyzeCommand)
	rootCmd.AddCommand(configCommand)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
