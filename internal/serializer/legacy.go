package serializer

import (
	"fmt"
	"strconv"
	"time"

	"github.com/roach88/eegraph/internal/computed"
	"github.com/roach88/eegraph/internal/ee"
	"github.com/roach88/eegraph/internal/ir"
)

// Legacy format type tags.
const (
	TypeValueRef      = "ValueRef"
	TypeCompoundValue = "CompoundValue"
	TypeDictionary    = "Dictionary"
)

type scopeEntry struct {
	name  string
	value ir.Value
}

// legacyEncoder holds the scope of one Encode call.
type legacyEncoder struct {
	compound bool
	scope    []scopeEntry
	byDigest map[string]string
}

// Encode converts v into the legacy graph format.
//
// Raw values are nil, bools, numbers, strings, time.Time (a Date
// invocation), slices and arrays, map[string]any (a Dictionary), ir.Value
// (taken as already encoded) and any computed.Object.
func Encode(v any, opts ...Option) (ir.Value, error) {
	o := newOptions(opts)
	e := &legacyEncoder{
		compound: o.compound,
		byDigest: make(map[string]string),
	}

	value, err := e.encode(v)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("encoded legacy graph", "compound", e.compound, "scope", len(e.scope))

	if !e.compound || len(e.scope) == 0 {
		return value, nil
	}
	if ref, ok := value.(ir.Object); ok && isType(ref, TypeValueRef) && len(e.scope) == 1 {
		// A single hoisted value needs no CompoundValue around it.
		return e.scope[0].value, nil
	}

	scope := make(ir.Array, len(e.scope))
	for i, entry := range e.scope {
		scope[i] = ir.Array{ir.String(entry.name), entry.value}
	}
	return ir.Object{
		"type":  ir.String(TypeCompoundValue),
		"scope": scope,
		"value": value,
	}, nil
}

// ToJSON encodes v in the legacy format as canonical JSON.
func ToJSON(v any, opts ...Option) ([]byte, error) {
	value, err := Encode(v, opts...)
	if err != nil {
		return nil, err
	}
	return ir.MarshalCanonical(value)
}

// encode is the computed.Encoder handed to every node.
func (e *legacyEncoder) encode(v any) (ir.Value, error) {
	value, err := e.encodeRaw(v)
	if err != nil {
		return nil, err
	}
	if !e.compound || !hoistable(value) {
		return value, nil
	}

	digest, err := ir.Digest(ir.DomainLegacy, value)
	if err != nil {
		return nil, err
	}
	name, ok := e.byDigest[digest]
	if !ok {
		name = strconv.Itoa(len(e.scope))
		e.scope = append(e.scope, scopeEntry{name: name, value: value})
		e.byDigest[digest] = name
	}
	return ir.Object{
		"type":  ir.String(TypeValueRef),
		"value": ir.String(name),
	}, nil
}

func (e *legacyEncoder) encodeRaw(v any) (ir.Value, error) {
	switch x := v.(type) {
	case nil:
		return ir.Null{}, nil
	case ir.Value:
		return x, nil
	case bool:
		return ir.Bool(x), nil
	case map[string]any:
		return e.encodeDictionary(x)
	}

	in := ee.Classify(v)
	switch in.Kind {
	case ee.KindString:
		return ir.String(in.String), nil
	case ee.KindNumber:
		return ir.FromNumber(in.Number)
	case ee.KindTime:
		return encodeTime(in.Time, e.encode)
	case ee.KindObject:
		return in.Object.Encode(e.encode)
	case ee.KindSequence:
		arr := make(ir.Array, len(in.Sequence))
		for i, elem := range in.Sequence {
			encoded, err := e.encode(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = encoded
		}
		return arr, nil
	default:
		return nil, &UnsupportedValueError{Value: v}
	}
}

func (e *legacyEncoder) encodeDictionary(m map[string]any) (ir.Value, error) {
	values := make(ir.Object, len(m))
	for _, k := range sortedKeys(m) {
		encoded, err := e.encode(m[k])
		if err != nil {
			return nil, fmt.Errorf("[%q]: %w", k, err)
		}
		values[k] = encoded
	}
	return ir.Object{
		"type":  ir.String(TypeDictionary),
		"value": values,
	}, nil
}

// encodeTime encodes t as a Date invocation on whole milliseconds.
func encodeTime(t time.Time, enc computed.Encoder) (ir.Value, error) {
	d, err := ee.NewDate(t)
	if err != nil {
		return nil, err
	}
	return d.Encode(enc)
}

// hoistable reports whether a value goes into the compound scope.
// Scalars and argument references stay inline.
func hoistable(v ir.Value) bool {
	switch x := v.(type) {
	case ir.Array:
		return true
	case ir.Object:
		return !isType(x, computed.TypeArgumentRef) && !isType(x, TypeValueRef)
	default:
		return false
	}
}

func isType(obj ir.Object, tag string) bool {
	s, ok := obj["type"].(ir.String)
	return ok && string(s) == tag
}
