package main

import (
	"os"

	"github.com/spf13/cobra"

	"web3scanner/internal/config"
)

var configCommand = &cobra.Command{
	Use:   "config",
	Short: "print the effective configuration",
	Long:  ``,
	RunE: func(*cobra.Command, []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return config.Dump(os.Stdout, cfg)
	},
}
