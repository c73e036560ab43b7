package diag

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/kbridge/pytype/internal/token"
)

// TestDiagnosticFormatGolden snapshots Format()'s rendered source excerpt
// and caret underline for one diagnostic per kind family, the same way the
// teacher snapshots its own rendered compiler-error fixtures with go-snaps
// rather than hand-writing one string-equality assertion per message shape.
func TestDiagnosticFormatGolden(t *testing.T) {
	source := "def g(x: Optional[str]) -> int:\n    return x.find('a')\n"
	rng := token.Range{Start: token.Position{Line: 2, Column: 12}, End: token.Position{Line: 2, Column: 16}}

	cases := []struct {
		name string
		d Diagnostic
		color bool
	}{
		{
			name: "optional_access_no_color",
			d: New(OptionalAccess, rng, "\"find\" is accessed on a value that may be None", nil),
		},
		{
			name: "argument_mismatch_with_action",
			d: New(ArgumentMismatch, rng, "argument of type str is not assignable to parameter of type int", nil).
				WithAction(9),
		},
		{
			name: "incompatible_override_colored",
			d: New(IncompatibleOverride, rng, "B.m overrides A.m incompatibly", nil),
			color: true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			snaps.MatchSnapshot(t, c.name, c.d.Format(source, "g.py", c.color))
		})
	}
}

// TestSummaryStringGolden snapshots the pluralized "N error(s), M
// warning(s), K info(s)" summary line for a handful of counts.
func TestSummaryStringGolden(t *testing.T) {
	cases := []struct {
		name string
		s Summary
	}{
		{"clean", Summary{}},
		{"singular", Summary{Errors: 1, Warnings: 1, Infos: 1}},
		{"plural", Summary{Errors: 2, Warnings: 3, Infos: 0}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			snaps.MatchSnapshot(t, c.name, c.s.String())
		})
	}
}
