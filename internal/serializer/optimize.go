package serializer

import (
	"fmt"

	"github.com/roach88/eegraph/internal/ir"
)

// Optimize rewrites a cloud expression so that every reference used exactly
// once is replaced by the value it points to. Values referenced more than
// once stay in the table, as does the result. Constant payloads are never
// inspected for references. The input is not modified.
func Optimize(expr ir.Object) (ir.Object, error) {
	result, values, err := splitExpression(expr)
	if err != nil {
		return nil, err
	}
	if _, ok := values[result]; !ok {
		return nil, fmt.Errorf("serializer: result reference %q not in values", result)
	}

	o := &optimizer{
		values: values,
		counts: make(map[string]int),
		seen:   make(map[string]bool),
		out:    make(ir.Object),
	}
	if err := o.count(result); err != nil {
		return nil, err
	}
	if err := o.emit(result); err != nil {
		return nil, err
	}
	return ir.Object{
		KeyResult: ir.String(result),
		KeyValues: o.out,
	}, nil
}

func splitExpression(expr ir.Object) (string, ir.Object, error) {
	result, ok := expr[KeyResult].(ir.String)
	if !ok {
		return "", nil, fmt.Errorf("serializer: expression has no string %q", KeyResult)
	}
	values, ok := expr[KeyValues].(ir.Object)
	if !ok {
		return "", nil, fmt.Errorf("serializer: expression has no object %q", KeyValues)
	}
	return string(result), values, nil
}

type optimizer struct {
	values ir.Object
	counts map[string]int
	seen   map[string]bool
	out    ir.Object
}

// count tallies the references made by every value reachable from ref.
// Each value is walked once however often it is referenced.
func (o *optimizer) count(ref string) error {
	if o.seen[ref] {
		return nil
	}
	o.seen[ref] = true
	v, ok := o.values[ref]
	if !ok {
		return fmt.Errorf("serializer: dangling reference %q", ref)
	}
	return walkReferences(v, false, func(r string) error {
		o.counts[r]++
		return o.count(r)
	})
}

// emit writes the optimized form of ref into the output table.
func (o *optimizer) emit(ref string) error {
	if _, done := o.out[ref]; done {
		return nil
	}
	v, err := o.rewrite(o.values[ref], false)
	if err != nil {
		return err
	}
	o.out[ref] = v
	return nil
}

// rewrite returns v with single-use references inlined. nameMap is true
// when v is an argument or dictionary map whose keys are user names.
func (o *optimizer) rewrite(v ir.Value, nameMap bool) (ir.Value, error) {
	if r, ok := referenceOf(v); ok && !nameMap {
		if o.counts[r] == 1 {
			return o.rewrite(o.values[r], false)
		}
		if err := o.emit(r); err != nil {
			return nil, err
		}
		return v, nil
	}

	switch x := v.(type) {
	case ir.Object:
		if !nameMap && isConstant(x) {
			return x, nil
		}
		out := make(ir.Object, len(x))
		for k, elem := range x {
			rewritten, err := o.rewrite(elem, !nameMap && holdsNameMap(k))
			if err != nil {
				return nil, err
			}
			out[k] = rewritten
		}
		return out, nil
	case ir.Array:
		out := make(ir.Array, len(x))
		for i, elem := range x {
			rewritten, err := o.rewrite(elem, false)
			if err != nil {
				return nil, err
			}
			out[i] = rewritten
		}
		return out, nil
	default:
		return v, nil
	}
}

// walkReferences calls fn for every reference directly inside v, without
// following them.
func walkReferences(v ir.Value, nameMap bool, fn func(ref string) error) error {
	if r, ok := referenceOf(v); ok && !nameMap {
		return fn(r)
	}
	switch x := v.(type) {
	case ir.Object:
		if !nameMap && isConstant(x) {
			return nil
		}
		for _, k := range x.SortedKeys() {
			if err := walkReferences(x[k], !nameMap && holdsNameMap(k), fn); err != nil {
				return err
			}
		}
	case ir.Array:
		for _, elem := range x {
			if err := walkReferences(elem, false, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// holdsNameMap reports whether the value under an envelope key is keyed by
// user-chosen names (invocation arguments, dictionary entries).
func holdsNameMap(key string) bool {
	return key == "arguments" || key == KeyValues
}

func isConstant(obj ir.Object) bool {
	_, ok := obj[KeyConstantValue]
	return ok && len(obj) == 1
}

// referenceOf reports whether v is a {"valueReference": ref} envelope.
func referenceOf(v ir.Value) (string, bool) {
	obj, ok := v.(ir.Object)
	if !ok || len(obj) != 1 {
		return "", false
	}
	ref, ok := obj[KeyValueReference].(ir.String)
	return string(ref), ok
}
