// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jsbundle/jsbundle/internal/discovery"
	"github.com/jsbundle/jsbundle/internal/issue"
	"github.com/jsbundle/jsbundle/internal/plan"
	"github.com/jsbundle/jsbundle/pkg/cueutil"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
	formatCUE  outputFormat = "cue"
)

// ErrInvalidOutputFormat is the sentinel error wrapped by InvalidOutputFormatError.
var ErrInvalidOutputFormat = errors.New("invalid output format")

type (
	// outputFormat selects how a plan is printed.
	outputFormat string

	// InvalidOutputFormatError is returned for an unknown --format value.
	InvalidOutputFormatError struct {
		Value string
	}
)

func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: text, json, yaml, cue)", e.Value)
}

// Unwrap returns ErrInvalidOutputFormat for errors.Is() compatibility.
func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }

func parseOutputFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case formatText, formatJSON, formatYAML, formatCUE:
		return f, nil
	case "yml":
		return formatYAML, nil
	default:
		return "", &InvalidOutputFormatError{Value: s}
	}
}

// encodePlan renders p in the given format. Styles are applied to text output
// only when styled is set.
func encodePlan(p *plan.Plan, format outputFormat, styled bool) ([]byte, error) {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode plan as json: %w", err)
		}
		return append(data, '\n'), nil
	case formatYAML:
		return planYAML(p)
	case formatCUE:
		return cueutil.Encode(p)
	default:
		var buf bytes.Buffer
		writePlanText(&buf, p, styled)
		return buf.Bytes(), nil
	}
}

// planYAML converts the JSON form of p to YAML, so keys keep the json tag
// names and field order.
func planYAML(p *plan.Plan) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode plan as yaml: %w", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("encode plan as yaml: %w", err)
	}
	clearStyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("encode plan as yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode plan as yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// clearStyle drops the flow and quoting styles inherited from JSON input.
func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}

func paint(styled bool, style lipgloss.Style, s string) string {
	if !styled {
		return s
	}
	return style.Render(s)
}

// writePlanText prints the plan for humans, with paths relative to the
// project root.
func writePlanText(w io.Writer, p *plan.Plan, styled bool) {
	fmt.Fprintf(w, "%s %s (entry point: %s)\n",
		paint(styled, TitleStyle, "Plan for"), p.ProjectRoot, p.EntryPoint)

	if len(p.Bundles) == 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, paint(styled, SubtitleStyle, "No bundles to emit."))
		return
	}

	for _, b := range p.Bundles {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s -> %s\n",
			paint(styled, TitleStyle, b.Name),
			paint(styled, CmdStyle, relPath(p.ProjectRoot, b.OutputPath)))
		for _, f := range b.Files {
			line := "  - " + relPath(p.ProjectRoot, f.PhysicalPath)
			if f.CompressionKind != "" {
				line += " " + paint(styled, SubtitleStyle, "("+f.CompressionKind+")")
			}
			fmt.Fprintln(w, line)
		}
	}
}

// relPath returns path relative to root with forward slashes, or path itself
// when it lies outside root.
func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

// renderDiagnostics prints non-fatal findings.
func renderDiagnostics(w io.Writer, diags []discovery.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s %s\n", WarningStyle.Render("!"), d.String())
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	if ae, ok := issue.As(err); ok {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// renderError prints err and, in verbose mode, the catalog entry explaining
// it rendered with the configured glamour style.
func (a *App) renderError(w io.Writer, err error) {
	verbose := a.settings.UI.Verbose
	fmt.Fprintln(w, ErrorStyle.Render("Error:")+" "+formatErrorForDisplay(err, verbose))

	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code.IsUsage() {
		fmt.Fprintln(w, SubtitleStyle.Render("Run 'jsbundle --help' for usage."))
		return
	}

	ae, ok := issue.As(err)
	if !ok || !verbose {
		return
	}
	entry := ae.Issue()
	if entry == nil {
		return
	}
	rendered, renderErr := entry.Render(a.settings.UI.Color.GlamourStyle())
	if renderErr != nil {
		a.logger.Warn("failed to render issue catalog entry", "issueID", ae.IssueID, "error", renderErr)
		return
	}
	fmt.Fprint(w, rendered)
}
