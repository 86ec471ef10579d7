// Package tools runs the external analyzers and turns whatever they leave
// behind into report.AnalysisResult values.
package tools

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Runner starts a process and waits for it. A non-zero exit status is not an
// error; only failing to start or talk to the process is.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (Output, error)
}

type ExecRunner struct{}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (Output, error) {
	var (
		stdout bytes.Buffer
		stderr bytes.Buffer
		start  = time.Now()
	)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debugf("exec %s %s (dir %q)", name, strings.Join(args, " "), dir)
	err := cmd.Run()
	out := Output{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}
	if err != nil {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		ee, ok := err.(*exec.ExitError)
		if !ok {
			return out, err
		}
		out.ExitCode = ee.ExitCode()
	}
	log.Debugf("%s exited with %d after %s", name, out.ExitCode, out.Duration)
	return out, nil
}
