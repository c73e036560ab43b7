package eval

import (
	"github.com/kbridge/pytype/internal/pytree"
	"github.com/kbridge/pytype/internal/types"
)

// Annotation exposes evalAnnotation to other packages (the statement
// analyzer evaluates parameter/return/variable annotations the same way the
// expression evaluator does for a subscript's type-argument list).
func (e *Evaluator) Annotation(expr pytree.Expr) types.Type {
	return e.evalAnnotation(expr)
}
