package scanner

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"web3scanner/internal/config"
	"web3scanner/internal/opener"
	"web3scanner/internal/report"
	"web3scanner/internal/tools"
)

func init() {
	color.NoColor = true
}

type fakeInvoker struct {
	name   string
	result report.AnalysisResult
	calls  []string
}

func (f *fakeInvoker) Name() string { return f.name }

func (f *fakeInvoker) Run(_ context.Context, contractPath string) report.AnalysisResult {
	f.calls = append(f.calls, contractPath)
	return f.result
}

type fakeOpener struct {
	opened []string
	err    error
}

func (f *fakeOpener) Open(_ context.Context, path string) error {
	f.opened = append(f.opened, path)
	return f.err
}

// toolRunner plays slither and myth: slither drops its artifact into the
// working directory, myth prints to stdout.
type toolRunner struct {
	slitherArtifact string
	mythrilStdout   string
	slitherErr      error
	calls           []string
}

func (r *toolRunner) Run(_ context.Context, dir, name string, args ...string) (tools.Output, error) {
	r.calls = append(r.calls, name)
	switch name {
	case "slither":
		if r.slitherErr != nil {
			return tools.Output{}, r.slitherErr
		}
		if r.slitherArtifact != "" {
			path := filepath.Join(dir, args[len(args)-1])
			if err := os.WriteFile(path, []byte(r.slitherArtifact), 0o644); err != nil {
				return tools.Output{}, err
			}
		}
		return tools.Output{ExitCode: 255}, nil
	case "myth":
		return tools.Output{Stdout: []byte(r.mythrilStdout)}, nil
	}
	return tools.Output{}, errors.Errorf("unexpected tool %s", name)
}

func workspace(t *testing.T) config.Config {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.MkdirAll("contracts", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("contracts", "Token.sol"), []byte("pragma solidity ^0.8.0;\ncontract Token {}\n"), 0o644))
	return config.Default()
}

func readReport(t *testing.T, path string) map[string]json.RawMessage {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &top))
	return top
}

func TestEndToEnd(t *testing.T) {
	cfg := workspace(t)
	runner := &toolRunner{
		slitherArtifact: `{"detectors": []}`,
		mythrilStdout:   `{"issues": []}`,
	}
	op := &fakeOpener{}
	var out bytes.Buffer
	s := NewScanner(cfg, tools.NewSlither(cfg, runner), tools.NewMythril(cfg, runner), op, &out)

	_, err := s.Run(context.Background(), "contracts/Token.sol")
	require.NoError(t, err)

	data, err := os.ReadFile("security_report.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"slither": {"detectors": []}, "mythril": {"issues": []}}`, string(data))
	assert.Equal(t, []string{"slither", "myth"}, runner.calls)
	assert.Equal(t, []string{"security_report.json"}, op.opened)

	_, err = os.Stat("report.json")
	assert.NoError(t, err, "intermediate artifact is left in place")

	console := out.String()
	assert.Contains(t, console, "Running Slither...\n")
	assert.Contains(t, console, "Running Mythril...\n")
	assert.Contains(t, console, "Security report generated: security_report.json\n")
	assert.Contains(t, console, "Analysis complete. Check security_report.json for details.\n")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("Running Slither")), bytes.Index(out.Bytes(), []byte("Running Mythril")))
}

func TestContractNotFound(t *testing.T) {
	cfg := workspace(t)
	slither := &fakeInvoker{name: "Slither"}
	mythril := &fakeInvoker{name: "Mythril"}
	op := &fakeOpener{}
	var out bytes.Buffer

	_, err := NewScanner(cfg, slither, mythril, op, &out).Run(context.Background(), "contracts/Missing.sol")
	assert.True(t, errors.Is(err, ErrContractNotFound))
	assert.Equal(t, "Error: Contract file not found!\n", out.String())
	assert.Empty(t, slither.calls)
	assert.Empty(t, mythril.calls)
	assert.Empty(t, op.opened)

	_, statErr := os.Stat("security_report.json")
	assert.True(t, os.IsNotExist(statErr))
}

func TestAllCombinations(t *testing.T) {
	ok := report.Success(json.RawMessage(`{"ok": true}`))
	spawn := report.Failure(&report.SpawnError{Tool: "Slither", Err: errors.New("boom")})
	missing := report.Failure(&report.MissingArtifactError{Tool: "Mythril"})

	var testCases = []struct {
		name             string
		slither, mythril report.AnalysisResult
		wantSlither      string
		wantMythril      string
	}{
		{"ok ok", ok, ok, `{"ok": true}`, `{"ok": true}`},
		{"fail ok", spawn, ok, `{"error": "Slither analysis failed: boom"}`, `{"ok": true}`},
		{"ok fail", ok, missing, `{"ok": true}`, `{"error": "No Mythril output"}`},
		{"fail fail", spawn, missing, `{"error": "Slither analysis failed: boom"}`, `{"error": "No Mythril output"}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := workspace(t)
			mythril := &fakeInvoker{name: "Mythril", result: tc.mythril}
			s := NewScanner(cfg, &fakeInvoker{name: "Slither", result: tc.slither}, mythril, nil, &bytes.Buffer{})

			_, err := s.Run(context.Background(), "contracts/Token.sol")
			require.NoError(t, err)
			assert.Len(t, mythril.calls, 1, "mythril runs whatever slither did")

			top := readReport(t, "security_report.json")
			assert.Len(t, top, 2)
			assert.JSONEq(t, tc.wantSlither, string(top["slither"]))
			assert.JSONEq(t, tc.wantMythril, string(top["mythril"]))
		})
	}
}

func TestSlitherSpawnFailureStillReports(t *testing.T) {
	cfg := workspace(t)
	runner := &toolRunner{
		slitherErr:    errors.New(`exec: "slither": executable file not found in $PATH`),
		mythrilStdout: `{"issues": []}`,
	}
	s := NewScanner(cfg, tools.NewSlither(cfg, runner), tools.NewMythril(cfg, runner), nil, &bytes.Buffer{})

	_, err := s.Run(context.Background(), "contracts/Token.sol")
	require.NoError(t, err)

	top := readReport(t, "security_report.json")
	assert.JSONEq(t, `{"error": "Slither analysis failed: exec: \"slither\": executable file not found in $PATH"}`, string(top["slither"]))
	assert.JSONEq(t, `{"issues": []}`, string(top["mythril"]))
}

func TestSlitherMissingArtifactAndEmptyMythril(t *testing.T) {
	cfg := workspace(t)
	runner := &toolRunner{}
	s := NewScanner(cfg, tools.NewSlither(cfg, runner), tools.NewMythril(cfg, runner), nil, &bytes.Buffer{})

	_, err := s.Run(context.Background(), "contracts/Token.sol")
	require.NoError(t, err)

	top := readReport(t, "security_report.json")
	assert.JSONEq(t, `{"error": "Slither output file not found: report.json"}`, string(top["slither"]))
	assert.JSONEq(t, `{"error": "No Mythril output"}`, string(top["mythril"]))
}

func TestRerunOverwrites(t *testing.T) {
	cfg := workspace(t)
	first := &fakeInvoker{name: "Slither", result: report.Success(json.RawMessage(`{"run": 1, "padding": "xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"}`))}
	mythril := &fakeInvoker{name: "Mythril", result: report.Success(json.RawMessage(`{}`))}
	_, err := NewScanner(cfg, first, mythril, nil, &bytes.Buffer{}).Run(context.Background(), "contracts/Token.sol")
	require.NoError(t, err)

	second := &fakeInvoker{name: "Slither", result: report.Success(json.RawMessage(`{"run": 2}`))}
	_, err = NewScanner(cfg, second, mythril, nil, &bytes.Buffer{}).Run(context.Background(), "contracts/Token.sol")
	require.NoError(t, err)

	top := readReport(t, "security_report.json")
	assert.JSONEq(t, `{"run": 2}`, string(top["slither"]))
}

func TestOpenerFailuresAreNotFatal(t *testing.T) {
	cfg := workspace(t)
	mk := func() (*fakeInvoker, *fakeInvoker) {
		return &fakeInvoker{name: "Slither", result: report.Success(json.RawMessage(`{}`))},
			&fakeInvoker{name: "Mythril", result: report.Success(json.RawMessage(`{}`))}
	}

	slither, mythril := mk()
	var out bytes.Buffer
	op := &fakeOpener{err: errors.Wrap(opener.ErrOpenerNotFound, "xdg-open")}
	_, err := NewScanner(cfg, slither, mythril, op, &out).Run(context.Background(), "contracts/Token.sol")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Could not open the security report: xdg-open: open command not found")

	slither, mythril = mk()
	out.Reset()
	op = &fakeOpener{err: errors.New("exit status 4")}
	_, err = NewScanner(cfg, slither, mythril, op, &out).Run(context.Background(), "contracts/Token.sol")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Could not open the security report, see security_report.json")
}

func TestNoOpen(t *testing.T) {
	cfg := workspace(t)
	cfg.NoOpen = true
	op := &fakeOpener{}
	s := NewScanner(cfg,
		&fakeInvoker{name: "Slither", result: report.Success(json.RawMessage(`{}`))},
		&fakeInvoker{name: "Mythril", result: report.Success(json.RawMessage(`{}`))},
		op, &bytes.Buffer{})

	_, err := s.Run(context.Background(), "contracts/Token.sol")
	require.NoError(t, err)
	assert.Empty(t, op.opened)
}

func TestWorkDir(t *testing.T) {
	cfg := workspace(t)
	cfg.WorkDir = t.TempDir()
	cfg.Output = "out/report.json"
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.WorkDir, "out"), 0o755))

	slither := &fakeInvoker{name: "Slither", result: report.Success(json.RawMessage(`{}`))}
	mythril := &fakeInvoker{name: "Mythril", result: report.Success(json.RawMessage(`{}`))}
	_, err := NewScanner(cfg, slither, mythril, nil, &bytes.Buffer{}).Run(context.Background(), "contracts/Token.sol")
	require.NoError(t, err)

	require.Len(t, slither.calls, 1)
	assert.True(t, filepath.IsAbs(slither.calls[0]))
	_, err = os.Stat(filepath.Join(cfg.WorkDir, "out", "report.json"))
	assert.NoError(t, err)
}
