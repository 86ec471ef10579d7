package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// SpawnError means the tool process could not be started or talked to.
type SpawnError struct {
	Tool string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("%s analysis failed: %v", e.Tool, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// MissingArtifactError means the tool ran but left nothing to read.
// An empty Artifact stands for standard output.
type MissingArtifactError struct {
	Tool     string
	Artifact string
}

func (e *MissingArtifactError) Error() string {
	if e.Artifact == "" {
		return fmt.Sprintf("No %s output", e.Tool)
	}
	return fmt.Sprintf("%s output file not found: %s", e.Tool, e.Artifact)
}

// ParseError means the tool output could not be read back as JSON.
type ParseError struct {
	Tool string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s analysis failed: %v", e.Tool, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// AnalysisResult is the outcome of one tool run: the tool's own JSON document,
// or an error that serialises as {"error": "<message>"}.
type AnalysisResult struct {
	payload json.RawMessage
	err     error
}

func Success(payload json.RawMessage) AnalysisResult {
	return AnalysisResult{payload: payload}
}

func Failure(err error) AnalysisResult {
	return AnalysisResult{err: err}
}

// ParsePayload validates raw tool output and wraps it as a success, or as a
// ParseError failure for the given tool.
func ParsePayload(tool string, raw []byte) AnalysisResult {
	var payload json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Failure(&ParseError{Tool: tool, Err: err})
	}
	return Success(payload)
}

func (r AnalysisResult) OK() bool { return r.err == nil && r.payload != nil }

func (r AnalysisResult) Payload() json.RawMessage { return r.payload }

func (r AnalysisResult) Err() error { return r.err }

func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	switch {
	case r.err != nil:
		return marshalNoEscape(map[string]string{"error": r.err.Error()})
	case r.payload != nil:
		return r.payload, nil
	default:
		return nil, errors.New("empty analysis result")
	}
}

func marshalNoEscape(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
