// Package scanner drives one run: check the contract, run both analyzers one
// after the other, persist the combined report and open it.
package scanner

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"web3scanner/internal/config"
	"web3scanner/internal/opener"
	"web3scanner/internal/report"
	"web3scanner/internal/summary"
	"web3scanner/internal/util"
)

var ErrContractNotFound = errors.New("contract file not found")

var (
	stage   = color.New(color.FgCyan).SprintFunc()
	success = color.New(color.FgGreen).SprintFunc()
	failure = color.New(color.FgRed).SprintFunc()
	warning = color.New(color.FgYellow).SprintFunc()
)

// Invoker runs one external tool. Failures come back inside the result.
type Invoker interface {
	Name() string
	Run(ctx context.Context, contractPath string) report.AnalysisResult
}

type Scanner struct {
	cfg     config.Config
	slither Invoker
	mythril Invoker
	opener  opener.Opener
	out     io.Writer
}

func NewScanner(cfg config.Config, slither, mythril Invoker, op opener.Opener, out io.Writer) *Scanner {
	if cfg.NoOpen || op == nil {
		op = opener.Nop{}
	}
	return &Scanner{
		cfg:     cfg,
		slither: slither,
		mythril: mythril,
		opener:  op,
		out:     out,
	}
}

// Run returns ErrContractNotFound before touching either tool when the
// contract path does not exist. Tool failures do not fail the run; they are
// recorded in the report.
func (s *Scanner) Run(ctx context.Context, contractPath string) (report.SecurityReport, error) {
	exists, err := util.FileExists(contractPath)
	if err != nil {
		return report.SecurityReport{}, errors.Wrapf(err, "stat %s", contractPath)
	}
	if !exists {
		fmt.Fprintln(s.out, failure("Error: Contract file not found!"))
		return report.SecurityReport{}, ErrContractNotFound
	}
	target, err := s.toolPath(contractPath)
	if err != nil {
		return report.SecurityReport{}, err
	}

	fingerprint, err := util.SourceHash(contractPath)
	if err != nil {
		log.Warnf("hash %s: %v", contractPath, err)
	} else {
		log.Infof("analyzing %s keccak256=%s", contractPath, fingerprint)
	}

	startTime := time.Now()
	slitherResult := s.invoke(ctx, s.slither, target)
	mythrilResult := s.invoke(ctx, s.mythril, target)
	securityReport := report.New(slitherResult, mythrilResult)

	outputPath := s.cfg.OutputPath()
	if err := report.Write(outputPath, securityReport); err != nil {
		return securityReport, err
	}
	fmt.Fprintf(s.out, "%s %s\n", success("Security report generated:"), outputPath)
	summary.Print(s.out, contractPath, fingerprint, securityReport)
	fmt.Fprintf(s.out, "Analysis complete. Check %s for details.\n", outputPath)
	log.Infof("analyze time used: %s", time.Since(startTime))

	s.open(ctx, outputPath)
	return securityReport, nil
}

func (s *Scanner) invoke(ctx context.Context, tool Invoker, target string) report.AnalysisResult {
	fmt.Fprintln(s.out, stage(fmt.Sprintf("Running %s...", tool.Name())))
	start := time.Now()
	result := tool.Run(ctx, target)
	if result.OK() {
		log.Infof("%s finished in %s", tool.Name(), time.Since(start))
	} else {
		log.Warnf("%s finished in %s: %v", tool.Name(), time.Since(start), result.Err())
	}
	return result
}

// toolPath makes the contract path usable from the tools' working directory.
func (s *Scanner) toolPath(contractPath string) (string, error) {
	if s.cfg.WorkDir == "" || s.cfg.WorkDir == "." || filepath.IsAbs(contractPath) {
		return contractPath, nil
	}
	abs, err := filepath.Abs(contractPath)
	if err != nil {
		return "", errors.Wrap(err, "Abs")
	}
	return abs, nil
}

func (s *Scanner) open(ctx context.Context, path string) {
	err := s.opener.Open(ctx, path)
	switch {
	case err == nil:
	case errors.Is(err, opener.ErrOpenerNotFound):
		fmt.Fprintf(s.out, "%s %v\n", warning("Could not open the security report:"), err)
	default:
		log.Warnf("open %s: %v", path, err)
		fmt.Fprintf(s.out, "%s %s\n", warning("Could not open the security report, see"), path)
	}
}
