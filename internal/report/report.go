// Package report holds the per-tool analysis results and the combined
// security report written at the end of a run.
package report

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const indent = "    "

// SecurityReport nests both tool results under fixed keys.
type SecurityReport struct {
	Slither AnalysisResult `json:"slither"`
	Mythril AnalysisResult `json:"mythril"`
}

func New(slither, mythril AnalysisResult) SecurityReport {
	return SecurityReport{Slither: slither, Mythril: mythril}
}

// Encode writes the report as 4-space indented JSON without a trailing newline.
func (r SecurityReport) Encode(w io.Writer) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(r); err != nil {
		return errors.Wrap(err, "Encode")
	}
	_, err := w.Write(bytes.TrimRight(buf.Bytes(), "\n"))
	return err
}

// Write serialises the report and replaces whatever is at path.
func Write(path string, r SecurityReport) error {
	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "WriteFile %s", path)
	}
	log.Debugf("wrote %d bytes to %s", buf.Len(), path)
	return nil
}
