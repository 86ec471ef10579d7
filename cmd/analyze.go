package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"web3scanner/internal/opener"
	"web3scanner/internal/prompt"
	"web3scanner/internal/scanner"
	"web3scanner/internal/tools"
)

var (
	SolidityFile string
)

var analyzeCommand = &cobra.Command{
	Use:   "analyze [contract.sol]",
	Short: "run slither and mythril on a contract and write the combined report",
	Long:  ``,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := analyzeExec(cmd.Context(), args); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "analyze err: %v\n", err)
		}
	},
}

func init() {
	flags := analyzeCommand.Flags()
	flags.StringVar(&SolidityFile, "file", "", "contract file to analyze")
	flags.String("output", "security_report.json", "combined report file")
	flags.Bool("no-open", false, "do not open the report when done")
	flags.String("slither-bin", "slither", "slither executable")
	flags.String("slither-json", "report.json", "intermediate file slither writes to")
	flags.Bool("clean-stale", false, "remove a leftover slither json file before running")
	flags.String("mythril-bin", "myth", "mythril executable")
	flags.Bool("pin-solc", false, "pass the pragma's solc version to mythril")

	for key, name := range map[string]string{
		"output":               "output",
		"no_open":              "no-open",
		"slither.bin":          "slither-bin",
		"slither.intermediate": "slither-json",
		"slither.clean_stale":  "clean-stale",
		"mythril.bin":          "mythril-bin",
		"mythril.pin_solc":     "pin-solc",
	} {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}
}

func contractPath(args []string) (string, error) {
	switch {
	case SolidityFile != "":
		return SolidityFile, nil
	case len(args) == 1:
		return args[0], nil
	}
	return prompt.ContractPath(prompt.Stdin(), os.Stdout)
}

func analyzeExec(ctx context.Context, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, err := contractPath(args)
	if err != nil {
		return err
	}

	runner := tools.NewExecRunner()
	s := scanner.NewScanner(cfg,
		tools.NewSlither(cfg, runner),
		tools.NewMythril(cfg, runner),
		opener.Default(),
		os.Stdout,
	)
	_, err = s.Run(ctx, path)
	if errors.Is(err, scanner.ErrContractNotFound) {
		return nil
	}
	return err
}
