package ee

import (
	"fmt"

	"github.com/roach88/eegraph/internal/apifunc"
	"github.com/roach88/eegraph/internal/computed"
	"github.com/roach88/eegraph/internal/ir"
	"github.com/roach88/eegraph/internal/timeconv"
)

const dateConstructorName = "ee.Date"

// Date is a graph value that evaluates to a date on the remote side.
// Its node is always an invocation.
type Date struct {
	node *computed.Node
}

// NewDate wraps v as a Date. v may be a time.Time, any number of
// milliseconds since the Unix epoch, a date string, or a graph object.
func NewDate(v any) (*Date, error) {
	return newDate(Classify(v), nil)
}

// NewDateInZone is NewDate with a time zone for string dates. tz must be a
// string; nil or "" means no zone. The zone name is passed to the engine
// unchecked.
func NewDateInZone(v any, tz any) (*Date, error) {
	return newDate(Classify(v), tz)
}

// MustDate is like NewDate but panics on error.
// Use only in tests or with literal inputs.
func MustDate(v any) *Date {
	d, err := NewDate(v)
	if err != nil {
		panic(err)
	}
	return d
}

func newDate(in Input, tz any) (*Date, error) {
	_, ctor := dateType.ensure()

	zone, hasZone, err := dateZone(in, tz)
	if err != nil {
		return nil, err
	}

	switch in.Kind {
	case KindTime:
		return &Date{node: computed.NewInvocation(ctor, map[string]any{
			"value": timeconv.Millis(in.Time),
		})}, nil

	case KindNumber:
		return &Date{node: computed.NewInvocation(ctor, map[string]any{
			"value": in.Number,
		})}, nil

	case KindString:
		args := map[string]any{"value": in.String}
		if hasZone {
			args["timeZone"] = zone
		}
		return &Date{node: computed.NewInvocation(ctor, args)}, nil

	case KindObject:
		if inv, ok := in.Object.Shape().(computed.Invocation); ok && inv.Func != nil && inv.Func.ReturnType() == apifunc.TypeDate {
			// Already a Date: reuse the invocation instead of wrapping it again.
			return &Date{node: computed.NewInvocation(inv.Func, inv.Args)}, nil
		}
		return &Date{node: computed.NewInvocation(ctor, map[string]any{
			"value": in.Object,
		})}, nil

	default:
		return nil, invalidArgument(dateConstructorName, in.Raw)
	}
}

// dateZone validates the optional time zone against the classified input.
func dateZone(in Input, tz any) (string, bool, error) {
	if tz == nil {
		return "", false, nil
	}
	zone, isString := tz.(string)
	if isString && zone == "" {
		return "", false, nil
	}
	if in.Kind != KindString {
		return "", false, &InvalidArgumentError{
			Constructor: dateConstructorName,
			Param:       "timeZone",
			Value:       in.Raw,
			Reason:      "a time zone is only usable with a string date",
		}
	}
	if !isString {
		return "", false, &InvalidArgumentError{
			Constructor: dateConstructorName,
			Param:       "timeZone",
			Value:       in.Raw,
			Reason:      fmt.Sprintf("time zone %v is not a string", tz),
		}
	}
	return zone, true, nil
}

// Name returns the wrapper type name.
func (*Date) Name() string {
	return apifunc.TypeDate
}

// Shape implements computed.Object.
func (d *Date) Shape() computed.Shape {
	return d.node.Shape()
}

// Func returns the invoked function.
func (d *Date) Func() computed.Function {
	return d.node.Func()
}

// Args returns a copy of the invocation arguments.
func (d *Date) Args() map[string]any {
	return d.node.Args()
}

// VarName returns "" since a Date is always an invocation.
func (d *Date) VarName() string {
	return d.node.VarName()
}

// Encode implements computed.Encodable. Dates always use the default
// node encoding.
func (d *Date) Encode(enc computed.Encoder) (ir.Value, error) {
	return d.node.Encode(enc)
}

// EncodeCloudValue implements computed.Encodable.
func (d *Date) EncodeCloudValue(enc computed.CloudEncoder) (ir.Value, error) {
	return d.node.EncodeCloudValue(enc)
}

// String renders the date node for diagnostics.
func (d *Date) String() string {
	return "ee.Date<" + d.node.String() + ">"
}

// Call invokes the imported Date method with d as its first argument.
// Static methods ignore the receiver.
func (d *Date) Call(method string, args ...any) (*computed.Node, error) {
	m, err := dateType.method(method)
	if err != nil {
		return nil, err
	}
	return m.Bind(d, args...)
}

// Advance returns d moved by delta units ("year", "month", "week", "day",
// "hour", "minute" or "second").
func (d *Date) Advance(delta any, unit string) (*Date, error) {
	n, err := d.Call("advance", delta, unit)
	if err != nil {
		return nil, err
	}
	return NewDate(n)
}

// Format returns a node rendering d with a Joda-Time pattern.
func (d *Date) Format(pattern string) (*computed.Node, error) {
	return d.Call("format", pattern)
}

// Millis returns a node evaluating to d in milliseconds since the epoch.
func (d *Date) Millis() (*computed.Node, error) {
	return d.Call("millis")
}

// Difference returns a node evaluating to d - start in the given unit.
func (d *Date) Difference(start any, unit string) (*computed.Node, error) {
	s, err := NewDate(start)
	if err != nil {
		return nil, err
	}
	return d.Call("difference", s, unit)
}

// DateFromYMD builds a Date from calendar fields through the static
// Date.fromYMD method.
func DateFromYMD(year, month, day any) (*Date, error) {
	m, err := dateType.method("fromYMD")
	if err != nil {
		return nil, err
	}
	n, err := m.Bind(nil, year, month, day)
	if err != nil {
		return nil, err
	}
	return NewDate(n)
}
