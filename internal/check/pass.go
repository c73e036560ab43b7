package check

import "github.com/kbridge/pytype/internal/pytree"

// Pass is one stage of a file's analysis: a named, independently runnable
// step that reads and writes the shared Context rather than mutating the
// parse tree.
type Pass interface {
	Name() string
	Run(mod *pytree.Module, ctx *Context) error
}

// PassManager runs a fixed ordered list of passes once per invocation. The
// module analysis driver (package module) is responsible for calling
// RunAll repeatedly to reach Check's fixed point; PassManager
// itself does not loop.
type PassManager struct {
	passes []Pass
}

func NewPassManager(passes ...Pass) *PassManager {
	return &PassManager{passes: passes}
}

func (pm *PassManager) AddPass(p Pass) { pm.passes = append(pm.passes, p) }

func (pm *PassManager) Passes() []Pass { return pm.passes }

// RunAll executes every pass in order against mod, stopping early only on a
// fatal (non-semantic) error.
func (pm *PassManager) RunAll(mod *pytree.Module, ctx *Context) error {
	for _, p := range pm.passes {
		if err := p.Run(mod, ctx); err != nil {
			return err
		}
	}
	return nil
}

// bindPass runs BindModule once, ahead of the iterative Check loop.
type bindPass struct{}

func (bindPass) Name() string { return "bind" }

func (bindPass) Run(mod *pytree.Module, ctx *Context) error {
	BindModule(mod, ctx)
	return nil
}

// checkPass runs one iteration of the statement analyzer; the
// driver wraps this in a fixed-point loop.
type checkPass struct{}

func (checkPass) Name() string { return "check" }

func (checkPass) Run(mod *pytree.Module, ctx *Context) error {
	CheckModule(mod, ctx)
	return nil
}

// DefaultPasses returns the standard bind-then-check pipeline in one
// PassManager; module.Driver does not use it, running BindOnlyPasses once
// and then CheckOnlyPasses repeatedly instead (see module.AnalyzeFile).
func DefaultPasses() *PassManager {
	return NewPassManager(bindPass{}, checkPass{})
}

// CheckOnlyPasses returns a pipeline containing just the check pass, for
// the iterative check loop that follows a bind pass.
func CheckOnlyPasses() *PassManager {
	return NewPassManager(checkPass{})
}

// BindOnlyPasses returns a pipeline containing just the bind pass, run once
// ahead of the iterative check loop.
func BindOnlyPasses() *PassManager {
	return NewPassManager(bindPass{})
}
