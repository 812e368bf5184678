package serializer

import (
	"fmt"
	"strconv"
	"time"

	"github.com/roach88/eegraph/internal/computed"
	"github.com/roach88/eegraph/internal/ee"
	"github.com/roach88/eegraph/internal/ir"
)

// Cloud format keys.
const (
	KeyResult                  = "result"
	KeyValues                  = "values"
	KeyConstantValue           = "constantValue"
	KeyArrayValue              = "arrayValue"
	KeyDictionaryValue         = "dictionaryValue"
	KeyFunctionInvocationValue = "functionInvocationValue"
	KeyValueReference          = "valueReference"
	KeyArgumentReference       = "argumentReference"
)

// cloudEncoder holds the value table of one EncodeCloud call.
type cloudEncoder struct {
	values   ir.Object
	byDigest map[string]string
}

// EncodeCloud converts v into the cloud expression format:
//
//	{"result": "<ref>", "values": {"<ref>": <value>, ...}}
//
// Identical encoded values share one entry. With WithOptimize(true), the
// default, the expression is passed through Optimize before returning.
func EncodeCloud(v any, opts ...Option) (ir.Object, error) {
	o := newOptions(opts)
	e := &cloudEncoder{
		values:   make(ir.Object),
		byDigest: make(map[string]string),
	}

	ref, err := e.encode(v)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("encoded cloud expression", "values", len(e.values))

	expr := ir.Object{
		KeyResult: ir.String(ref),
		KeyValues: e.values,
	}
	if !o.optimize {
		return expr, nil
	}
	return Optimize(expr)
}

// ToCloudJSON encodes v in the cloud format as canonical JSON.
func ToCloudJSON(v any, opts ...Option) ([]byte, error) {
	expr, err := EncodeCloud(v, opts...)
	if err != nil {
		return nil, err
	}
	return ir.MarshalCanonical(expr)
}

// encode is the computed.CloudEncoder handed to every node. It stores the
// encoded value and returns its reference.
func (e *cloudEncoder) encode(v any) (string, error) {
	value, err := e.encodeValue(v)
	if err != nil {
		return "", err
	}

	digest, err := ir.Digest(ir.DomainCloud, value)
	if err != nil {
		return "", err
	}
	if ref, ok := e.byDigest[digest]; ok {
		return ref, nil
	}
	ref := strconv.Itoa(len(e.values))
	e.values[ref] = value
	e.byDigest[digest] = ref
	return ref, nil
}

func (e *cloudEncoder) encodeValue(v any) (ir.Value, error) {
	switch x := v.(type) {
	case nil:
		return constant(ir.Null{}), nil
	case ir.Value:
		return constant(x), nil
	case bool:
		return constant(ir.Bool(x)), nil
	case map[string]any:
		return e.encodeDictionary(x)
	}

	in := ee.Classify(v)
	switch in.Kind {
	case ee.KindString:
		return constant(ir.String(in.String)), nil
	case ee.KindNumber:
		n, err := ir.FromNumber(in.Number)
		if err != nil {
			return nil, err
		}
		return constant(n), nil
	case ee.KindTime:
		return encodeCloudTime(in.Time, e.encode)
	case ee.KindObject:
		return in.Object.EncodeCloudValue(e.encode)
	case ee.KindSequence:
		refs := make(ir.Array, len(in.Sequence))
		for i, elem := range in.Sequence {
			ref, err := e.encode(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			refs[i] = computed.ValueReference(ref)
		}
		return ir.Object{KeyArrayValue: ir.Object{KeyValues: refs}}, nil
	default:
		return nil, &UnsupportedValueError{Value: v}
	}
}

func (e *cloudEncoder) encodeDictionary(m map[string]any) (ir.Value, error) {
	refs := make(ir.Object, len(m))
	for _, k := range sortedKeys(m) {
		ref, err := e.encode(m[k])
		if err != nil {
			return nil, fmt.Errorf("[%q]: %w", k, err)
		}
		refs[k] = computed.ValueReference(ref)
	}
	return ir.Object{KeyDictionaryValue: ir.Object{KeyValues: refs}}, nil
}

func encodeCloudTime(t time.Time, enc computed.CloudEncoder) (ir.Value, error) {
	d, err := ee.NewDate(t)
	if err != nil {
		return nil, err
	}
	return d.EncodeCloudValue(enc)
}

func constant(v ir.Value) ir.Object {
	return ir.Object{KeyConstantValue: v}
}
