package tools

import (
	"context"

	log "github.com/sirupsen/logrus"

	"web3scanner/internal/config"
	"web3scanner/internal/report"
	"web3scanner/internal/solidity"
)

const MythrilName = "Mythril"

// Mythril runs the symbolic-execution engine with JSON on standard output.
type Mythril struct {
	cfg    config.Config
	runner Runner
}

func NewMythril(cfg config.Config, runner Runner) *Mythril {
	return &Mythril{cfg: cfg, runner: runner}
}

func (m *Mythril) Name() string { return MythrilName }

func (m *Mythril) Args(contractPath string) []string {
	args := []string{"analyze", contractPath, "-o", "json"}
	if !m.cfg.Mythril.PinSolc {
		return args
	}
	constraint, err := solidity.ExtractVersionFromFile(contractPath)
	if err != nil {
		log.Warnf("read pragma of %s: %v", contractPath, err)
		return args
	}
	if version := solidity.PinnedVersion(constraint); version != "" {
		return append(args, "--solv", version)
	}
	log.Debugf("pragma %q does not pin a single solc version", constraint)
	return args
}

func (m *Mythril) Run(ctx context.Context, contractPath string) report.AnalysisResult {
	out, err := m.runner.Run(ctx, m.cfg.WorkDir, m.cfg.Mythril.Bin, m.Args(contractPath)...)
	if err != nil {
		return report.Failure(&report.SpawnError{Tool: MythrilName, Err: err})
	}
	log.Debugf("myth exit code %d, stdout %d bytes", out.ExitCode, len(out.Stdout))

	if len(out.Stdout) == 0 {
		return report.Failure(&report.MissingArtifactError{Tool: MythrilName})
	}
	return report.ParsePayload(MythrilName, out.Stdout)
}
