package types

// Combine implements combine_types: flatten nested unions,
// drop Never, sort literals after non-literals, deduplicate by IsSame
// (additionally dropping a literal Object when a non-literal Object of the
// same class is present), and collapse a single survivor to itself.
func Combine(members ...Type) Type {
	flat := make([]Type, 0, len(members))
	var flatten func(Type)
	flatten = func(t Type) {
		if t == nil {
			return
		}
		if _, ok := t.(NeverType); ok {
			return
		}
		if u, ok := t.(*Union); ok {
			for _, m := range u.Members {
				flatten(m)
			}
			return
		}
		flat = append(flat, t)
	}
	for _, m := range members {
		flatten(m)
	}

	if len(flat) == 0 {
		return Never
	}

	ordered := SortLiteralsLast(flat)

	// Drop a literal Object when a non-literal Object of the same class is
	// already present.
	hasPlainClass := map[string]bool{}
	for _, t := range ordered {
		if o, ok := t.(*Object); ok && o.Literal == nil {
			hasPlainClass[o.Class.Name] = true
		}
	}

	var deduped []Type
	for _, t := range ordered {
		if o, ok := t.(*Object); ok && o.Literal != nil && hasPlainClass[o.Class.Name] {
			continue
		}
		dup := false
		for _, existing := range deduped {
			if IsSame(existing, t) {
				dup = true
				break
			}
		}
		if !dup {
			deduped = append(deduped, t)
		}
	}

	if len(deduped) == 1 {
		return deduped[0]
	}
	return &Union{Members: deduped}
}

// RemoveTruthiness drops the `None` and `False`-literal members from t's
// union (or returns Never if t is itself one of them), used when evaluating
// the RHS of `and` under the left operand's truthy constraint.
func RemoveTruthiness(t Type) Type {
	return filterUnion(t, func(m Type) bool { return !isFalsyLiteral(m) })
}

// RemoveFalsiness drops the `True`-literal member, used for `or`.
func RemoveFalsiness(t Type) Type {
	return filterUnion(t, func(m Type) bool { return !isTruthyOnlyLiteral(m) })
}

func filterUnion(t Type, keep func(Type) bool) Type {
	u, ok := t.(*Union)
	if !ok {
		if keep(t) {
			return t
		}
		return Never
	}
	var kept []Type
	for _, m := range u.Members {
		if keep(m) {
			kept = append(kept, m)
		}
	}
	return Combine(kept...)
}

func isFalsyLiteral(t Type) bool {
	if _, ok := t.(NoneType); ok {
		return true
	}
	if o, ok := t.(*Object); ok {
		if b, ok := o.Literal.(bool); ok && !b {
			return true
		}
	}
	return false
}

func isTruthyOnlyLiteral(t Type) bool {
	if o, ok := t.(*Object); ok {
		if b, ok := o.Literal.(bool); ok && b {
			return true
		}
	}
	return false
}
