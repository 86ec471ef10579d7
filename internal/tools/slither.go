package tools

import (
	"context"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"web3scanner/internal/config"
	"web3scanner/internal/report"
	"web3scanner/internal/util"
)

const SlitherName = "Slither"

// Slither runs the static analyzer, which writes its findings to an
// intermediate JSON file that is read back once the process exits.
type Slither struct {
	cfg    config.Config
	runner Runner
}

func NewSlither(cfg config.Config, runner Runner) *Slither {
	return &Slither{cfg: cfg, runner: runner}
}

func (s *Slither) Name() string { return SlitherName }

func (s *Slither) Run(ctx context.Context, contractPath string) report.AnalysisResult {
	artifact := s.cfg.IntermediatePath()
	if s.cfg.Slither.CleanStale {
		if err := os.Remove(artifact); err != nil && !os.IsNotExist(err) {
			log.Warnf("remove stale %s: %v", artifact, err)
		}
	}

	out, err := s.runner.Run(ctx, s.cfg.WorkDir, s.cfg.Slither.Bin,
		contractPath, "--json", s.cfg.Slither.Intermediate)
	if err != nil {
		return report.Failure(&report.SpawnError{Tool: SlitherName, Err: err})
	}
	log.Debugf("slither exit code %d, stderr %d bytes", out.ExitCode, len(out.Stderr))

	exists, err := util.FileExists(artifact)
	if err != nil {
		return report.Failure(&report.SpawnError{Tool: SlitherName, Err: errors.Wrap(err, "stat")})
	}
	if !exists {
		return report.Failure(&report.MissingArtifactError{Tool: SlitherName, Artifact: s.cfg.Slither.Intermediate})
	}
	data, err := os.ReadFile(artifact)
	if err != nil {
		return report.Failure(&report.ParseError{Tool: SlitherName, Err: err})
	}
	return report.ParsePayload(SlitherName, data)
}
