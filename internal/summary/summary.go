// Package summary prints a short, human-readable digest of a security report
// to the terminal. It reads the tools' JSON on a best-effort basis and never
// changes the report itself.
package summary

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"web3scanner/internal/report"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

type SlitherDetection struct {
	Check       string `json:"check"`
	Impact      string `json:"impact"`
	Confidence  string `json:"confidence"`
	Description string `json:"description"`
}

type slitherOut struct {
	Results struct {
		Detectors []SlitherDetection `json:"detectors"`
	} `json:"results"`
	Detectors []SlitherDetection `json:"detectors"`
}

type MythrilIssue struct {
	SwcID    string `json:"swc-id"`
	SwcIDAlt string `json:"swcID"`
	Title    string `json:"title"`
	Severity string `json:"severity"`
	Function string `json:"function"`
	Filename string `json:"filename"`
	Lineno   int    `json:"lineno"`
}

type mythOut struct {
	Issues []MythrilIssue `json:"issues"`
}

// SlitherDetections returns the detector results of a slither payload, in the
// order slither emitted them.
func SlitherDetections(payload json.RawMessage) ([]SlitherDetection, error) {
	var o slitherOut
	if err := json.Unmarshal(payload, &o); err != nil {
		return nil, err
	}
	if len(o.Results.Detectors) > 0 {
		return o.Results.Detectors, nil
	}
	return o.Detectors, nil
}

func MythrilIssues(payload json.RawMessage) ([]MythrilIssue, error) {
	var o mythOut
	if err := json.Unmarshal(payload, &o); err != nil {
		return nil, err
	}
	for i := range o.Issues {
		if o.Issues[i].SwcID == "" {
			o.Issues[i].SwcID = o.Issues[i].SwcIDAlt
		}
	}
	return o.Issues, nil
}

// Print writes the digest. fingerprint may be empty.
func Print(w io.Writer, contractPath, fingerprint string, r report.SecurityReport) {
	header := fmt.Sprintf("Contract: %s", contractPath)
	if fingerprint != "" {
		header += gray(fmt.Sprintf(" (keccak256 %s)", fingerprint))
	}
	fmt.Fprintln(w, bold(header))
	printSlither(w, r.Slither)
	printMythril(w, r.Mythril)
}

func printSlither(w io.Writer, result report.AnalysisResult) {
	fmt.Fprintf(w, "%s\n", cyan("Slither"))
	if !result.OK() {
		fmt.Fprintf(w, "  %s\n", red(result.Err().Error()))
		return
	}
	detections, err := SlitherDetections(result.Payload())
	if err != nil {
		fmt.Fprintf(w, "  %s\n", gray("unrecognised output, see report"))
		return
	}
	if len(detections) == 0 {
		fmt.Fprintf(w, "  no findings\n")
		return
	}
	counts := map[string]int{}
	for _, d := range detections {
		counts[d.Impact]++
	}
	impacts := make([]string, 0, len(counts))
	for impact := range counts {
		impacts = append(impacts, impact)
	}
	sort.Slice(impacts, func(i, j int) bool {
		ri, rj := impactRank(impacts[i]), impactRank(impacts[j])
		if ri != rj {
			return ri > rj
		}
		return impacts[i] < impacts[j]
	})
	parts := make([]string, 0, len(impacts))
	for _, impact := range impacts {
		label := impact
		if label == "" {
			label = "Unknown"
		}
		parts = append(parts, colourImpact(impact, fmt.Sprintf("%s: %d", label, counts[impact])))
	}
	fmt.Fprintf(w, "  %d findings (%s)\n", len(detections), strings.Join(parts, ", "))
}

func printMythril(w io.Writer, result report.AnalysisResult) {
	fmt.Fprintf(w, "%s\n", cyan("Mythril"))
	if !result.OK() {
		fmt.Fprintf(w, "  %s\n", red(result.Err().Error()))
		return
	}
	issues, err := MythrilIssues(result.Payload())
	if err != nil {
		fmt.Fprintf(w, "  %s\n", gray("unrecognised output, see report"))
		return
	}
	if len(issues) == 0 {
		fmt.Fprintf(w, "  no issues\n")
		return
	}
	sort.SliceStable(issues, func(i, j int) bool {
		return impactRank(issues[i].Severity) > impactRank(issues[j].Severity)
	})
	for _, is := range issues {
		title := is.Title
		if title == "" {
			title = SWCTitle(is.SwcID)
		}
		line := fmt.Sprintf("[%s] SWC-%s %s", is.Severity, is.SwcID, title)
		if is.Function != "" {
			line += fmt.Sprintf(" in %s", is.Function)
		}
		if is.Filename != "" && is.Lineno > 0 {
			line += gray(fmt.Sprintf(" (%s:%d)", is.Filename, is.Lineno))
		}
		fmt.Fprintf(w, "  %s\n", colourImpact(is.Severity, line))
	}
}

func impactRank(impact string) int {
	switch strings.ToLower(impact) {
	case "high", "critical":
		return 4
	case "medium":
		return 3
	case "low":
		return 2
	case "informational":
		return 1
	default:
		return 0
	}
}

func colourImpact(impact, s string) string {
	switch impactRank(impact) {
	case 4:
		return red(s)
	case 3:
		return yellow(s)
	default:
		return s
	}
}
