package ee

import (
	"math"
	"reflect"
	"time"

	"github.com/roach88/eegraph/internal/computed"
)

// Kind is the closed set of input shapes the constructors dispatch on.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindTime
	KindNumber
	KindString
	KindObject
	KindSequence
)

var kindNames = [...]string{
	KindUnrecognized: "unrecognized",
	KindTime:         "time",
	KindNumber:       "number",
	KindString:       "string",
	KindObject:       "object",
	KindSequence:     "sequence",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unrecognized"
}

// Input is a classified constructor argument. Only the field that matches
// Kind is populated; Raw always holds the original value for diagnostics.
type Input struct {
	Kind     Kind
	Time     time.Time
	Number   any // int64 or float64
	String   string
	Object   computed.Object
	Sequence []any
	Raw      any
}

// Classify decides the Kind of v.
//
// Every Go integer and float width is a number, normalized to int64 or
// float64 (uint64 values above MaxInt64 become float64). Slices and arrays
// other than []byte are sequences and are copied into a fresh []any.
// nil, typed nil pointers and everything else are unrecognized.
func Classify(v any) Input {
	in := Input{Raw: v}

	switch x := v.(type) {
	case nil:
		return in
	case time.Time:
		in.Kind, in.Time = KindTime, x
	case *time.Time:
		if x != nil {
			in.Kind, in.Time = KindTime, *x
		}
	case string:
		in.Kind, in.String = KindString, x
	case int:
		in.Kind, in.Number = KindNumber, int64(x)
	case int8:
		in.Kind, in.Number = KindNumber, int64(x)
	case int16:
		in.Kind, in.Number = KindNumber, int64(x)
	case int32:
		in.Kind, in.Number = KindNumber, int64(x)
	case int64:
		in.Kind, in.Number = KindNumber, x
	case uint:
		in.Kind, in.Number = KindNumber, normalizeUint(uint64(x))
	case uint8:
		in.Kind, in.Number = KindNumber, int64(x)
	case uint16:
		in.Kind, in.Number = KindNumber, int64(x)
	case uint32:
		in.Kind, in.Number = KindNumber, int64(x)
	case uint64:
		in.Kind, in.Number = KindNumber, normalizeUint(x)
	case float32:
		in.Kind, in.Number = KindNumber, float64(x)
	case float64:
		in.Kind, in.Number = KindNumber, x
	case []byte:
		return in
	case []any:
		in.Kind, in.Sequence = KindSequence, append([]any(nil), x...)
		if in.Sequence == nil {
			in.Sequence = []any{}
		}
	case computed.Object:
		if !isNilPointer(x) {
			in.Kind, in.Object = KindObject, x
		}
	default:
		if seq, ok := sequenceOf(v); ok {
			in.Kind, in.Sequence = KindSequence, seq
		}
	}
	return in
}

func normalizeUint(u uint64) any {
	if u > math.MaxInt64 {
		return float64(u)
	}
	return int64(u)
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// sequenceOf copies any slice or array into a []any.
func sequenceOf(v any) ([]any, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	seq := make([]any, rv.Len())
	for i := range seq {
		seq[i] = rv.Index(i).Interface()
	}
	return seq, true
}
