package diag

import (
	"fmt"
	"strings"

	krtext "github.com/kr/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kbridge/pytype/internal/token"
)

// Action is the suggested-edit payload a diagnostic may carry:
// currently only the single "wrap a parameter's annotation in Optional[...]"
// action the source supports.
type Action struct {
	Name string // "addoptionalforparam"
	OffsetOfTypeNode int
}

// Diagnostic is one finding.
type Diagnostic struct {
	Kind Kind
	Severity Severity
	Range token.Range
	Message string
	Action *Action
}

// New builds a diagnostic, resolving severity from overrides the way the
// driver's per-file check phase does for every finding it records.
func New(kind Kind, rng token.Range, message string, overrides map[string]Severity) Diagnostic {
	return Diagnostic{Kind: kind, Severity: SeverityFor(kind, overrides), Range: rng, Message: message}
}

// Suppressed reports whether this diagnostic's severity is "none", meaning
// it should not be added to the file's published diagnostic list at all.
func (d Diagnostic) Suppressed() bool { return d.Severity == SeverityNone }

// WithRange returns a copy of d with its position range replaced, for
// callers that have a real range to attach (the synthetic parse-tree
// contract this repository tests against does not).
func (d Diagnostic) WithRange(rng token.Range) Diagnostic {
	d.Range = rng
	return d
}

// WithAction returns a copy of d carrying the one suggested-edit payload
// diagnostics may attach: wrapping a parameter's annotation in
// Optional[...].
func (d Diagnostic) WithAction(offsetOfTypeNode int) Diagnostic {
	d.Action = &Action{Name: "addoptionalforparam", OffsetOfTypeNode: offsetOfTypeNode}
	return d
}

// Format renders the diagnostic with a source excerpt and caret underline,
// the same shape a compiler error formats to a terminal; long messages
// are wrapped to 100 columns via kr/text so multi-line explanations stay
// readable.
func (d Diagnostic) Format(source, file string, color bool) string {
	var sb strings.Builder
	loc := fmt.Sprintf("%s:%s", file, d.Range.Start)
	sevLabel := strings.ToUpper(string(d.Severity))
	if color {
		sevLabel = colorize(d.Severity, sevLabel)
	}
	fmt.Fprintf(&sb, "%s: %s: %s\n", loc, sevLabel, krtext.Wrap(d.Message, 100))

	lines := strings.Split(source, "\n")
	lineIdx := d.Range.Start.Line - 1
	if lineIdx >= 0 && lineIdx < len(lines) {
		sb.WriteString(" " + lines[lineIdx] + "\n")
		col := d.Range.Start.Column
		if col < 1 {
			col = 1
		}
		sb.WriteString(" " + strings.Repeat(" ", col-1) + "^\n")
	}
	return sb.String()
}

func colorize(sev Severity, s string) string {
	code := "0"
	switch sev {
	case SeverityError:
		code = "31"
	case SeverityWarning:
		code = "33"
	case SeverityInfo, SeverityUnused:
		code = "36"
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

// Summary is the "N error(s), M warning(s), K info(s)" counts line printed
// after a run.
type Summary struct {
	Errors, Warnings, Infos int
}

func Summarize(diags []Diagnostic) Summary {
	var s Summary
	for _, d := range diags {
		switch d.Severity {
		case SeverityError:
			s.Errors++
		case SeverityWarning:
			s.Warnings++
		case SeverityInfo, SeverityUnused:
			s.Infos++
		}
	}
	return s
}

var printer = message.NewPrinter(language.English)

// String renders the summary the way pytype's CLI prints its final line,
// with a fixed "(s)" suffix on each noun whatever the count.
func (s Summary) String() string {
	return printer.Sprintf("%d error(s), %d warning(s), %d info(s)", s.Errors, s.Warnings, s.Infos)
}
