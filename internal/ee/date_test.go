package ee

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eegraph/internal/apifunc"
	"github.com/roach88/eegraph/internal/computed"
	"github.com/roach88/eegraph/internal/ir"
)

// scalarEncoder encodes the leaves used in these tests and recurses into
// graph objects with itself.
func scalarEncoder(v any) (ir.Value, error) {
	switch x := v.(type) {
	case computed.Encodable:
		return x.Encode(scalarEncoder)
	default:
		return ir.ToValue(x)
	}
}

func TestNewDateFromTime(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want int64
	}{
		{"epoch", time.Unix(0, 0), 0},
		{"whole millis", time.UnixMilli(1_700_000_000_123), 1_700_000_000_123},
		{"truncates sub-millisecond", time.UnixMicro(1_700_000_000_123_999), 1_700_000_000_123},
		{"floors before epoch", time.UnixMicro(-1), -1},
		{"floors before epoch with fraction", time.UnixMicro(-1_500), -2},
		{"zone does not matter", time.Date(2020, 1, 1, 0, 0, 0, 0, time.FixedZone("X", 3600)), 1577833200000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDate(tt.in)
			require.NoError(t, err)

			assert.Equal(t, "Date", d.Func().Name())
			assert.Equal(t, map[string]any{"value": tt.want}, d.Args())
		})
	}
}

func TestNewDateFromNumberVerbatim(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{0, int64(0)},
		{1_700_000_000_000, int64(1_700_000_000_000)},
		{-5, int64(-5)},
		{1.5, 1.5},
		{float32(2), float64(2)},
		{uint32(12), int64(12)},
	}

	for _, tt := range tests {
		d, err := NewDate(tt.in)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"value": tt.want}, d.Args(), "input %v", tt.in)
	}
}

func TestNewDateFromString(t *testing.T) {
	d, err := NewDate("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"value": "2024-01-01"}, d.Args())

	d, err = NewDateInZone("2024-01-01", "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"value":    "2024-01-01",
		"timeZone": "America/New_York",
	}, d.Args())
}

func TestNewDateEmptyZoneAddsNothing(t *testing.T) {
	for _, tz := range []any{nil, ""} {
		d, err := NewDateInZone("2024-01-01", tz)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"value": "2024-01-01"}, d.Args())
	}
}

func TestNewDateZoneIsNotChecked(t *testing.T) {
	d, err := NewDateInZone("2024-01-01", "Not/A_Zone")
	require.NoError(t, err)
	assert.Equal(t, "Not/A_Zone", d.Args()["timeZone"])
}

func TestNewDateZoneErrors(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		tz    any
		value any
	}{
		{"non-string zone", "2024-01-01", 5, "2024-01-01"},
		{"zero zone", "2024-01-01", 0, "2024-01-01"},
		{"false zone", "2024-01-01", false, "2024-01-01"},
		{"zone with number", int64(5), "UTC", int64(5)},
		{"zone with time", time.Unix(0, 0), "UTC", time.Unix(0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDateInZone(tt.in, tt.tz)
			require.Error(t, err)
			assert.Nil(t, d)
			assert.True(t, errors.Is(err, ErrInvalidArgument))

			var iae *InvalidArgumentError
			require.True(t, errors.As(err, &iae))
			assert.Equal(t, "timeZone", iae.Param)
			assert.Equal(t, tt.value, iae.Value)
			assert.Contains(t, err.Error(), "ee.Date(..., timeZone)")
		})
	}
}

func TestNewDateInvalid(t *testing.T) {
	for _, in := range []any{nil, true, map[string]any{"a": 1}, struct{}{}, []byte("x"), []any{1}} {
		d, err := NewDate(in)
		require.Error(t, err, "input %#v", in)
		assert.Nil(t, d)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}

	_, err := NewDate(true)
	assert.Equal(t, "invalid argument specified for ee.Date(): true", err.Error())
}

func TestNewDateCastIsPassThrough(t *testing.T) {
	d := MustDate("2024-01-01")

	cast, err := NewDate(d)
	require.NoError(t, err)
	assert.Equal(t, d.Func().Name(), cast.Func().Name())
	assert.Equal(t, d.Args(), cast.Args())
	assert.Equal(t, d.VarName(), cast.VarName())

	twice, err := NewDate(cast)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(cast.Args(), twice.Args()))

	legacy, err := d.Encode(scalarEncoder)
	require.NoError(t, err)
	castLegacy, err := twice.Encode(scalarEncoder)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(legacy, castLegacy))
}

func TestNewDateCastsMethodResult(t *testing.T) {
	d := MustDate(int64(0))

	later, err := d.Advance(1, "day")
	require.NoError(t, err)
	assert.Equal(t, "Date.advance", later.Func().Name())

	args := later.Args()
	assert.Same(t, d, args["date"])
	assert.Equal(t, 1, args["delta"])
	assert.Equal(t, "day", args["unit"])
}

func TestDateShapeDoesNotShareArgs(t *testing.T) {
	d := MustDate("2024-01-01")

	inv, ok := d.Shape().(computed.Invocation)
	require.True(t, ok)
	inv.Args["value"] = "mutated"

	assert.Equal(t, map[string]any{"value": "2024-01-01"}, d.Args())
}

func TestNewDateWrapsInvocationWithoutFunction(t *testing.T) {
	obj := emptyInvocation{}

	var d *Date
	require.NotPanics(t, func() {
		var err error
		d, err = NewDate(obj)
		require.NoError(t, err)
	})
	assert.Equal(t, "Date", d.Func().Name())
	assert.Equal(t, obj, d.Args()["value"])
}

func TestNewDateWrapsNonDateObjects(t *testing.T) {
	v := computed.NewVariable("d")
	d, err := NewDate(v)
	require.NoError(t, err)
	assert.Equal(t, "Date", d.Func().Name())
	assert.Same(t, v, d.Args()["value"])

	millis, err := MustDate(int64(0)).Millis()
	require.NoError(t, err)
	d, err = NewDate(millis)
	require.NoError(t, err)
	assert.Equal(t, "Date", d.Func().Name())
	assert.Same(t, millis, d.Args()["value"])

	l := MustList([]any{1})
	d, err = NewDate(l)
	require.NoError(t, err)
	assert.Same(t, l, d.Args()["value"])
}

func TestDateEncode(t *testing.T) {
	d, err := NewDateInZone("2024-01-01", "UTC")
	require.NoError(t, err)

	got, err := d.Encode(scalarEncoder)
	require.NoError(t, err)

	want := ir.Object{
		"type":         ir.String("Invocation"),
		"functionName": ir.String("Date"),
		"arguments": ir.Object{
			"value":    ir.String("2024-01-01"),
			"timeZone": ir.String("UTC"),
		},
	}
	assert.Empty(t, cmp.Diff(want, got))
}

func TestDateEncodeCloudValue(t *testing.T) {
	var seen []any
	enc := func(v any) (string, error) {
		seen = append(seen, v)
		return string(rune('a' + len(seen) - 1)), nil
	}

	got, err := MustDate(int64(7)).EncodeCloudValue(enc)
	require.NoError(t, err)

	want := ir.Object{
		"functionInvocationValue": ir.Object{
			"functionName": ir.String("Date"),
			"arguments": ir.Object{
				"value": ir.Object{"valueReference": ir.String("a")},
			},
		},
	}
	assert.Empty(t, cmp.Diff(want, got))
	assert.Equal(t, []any{int64(7)}, seen)
}

func TestDateMethods(t *testing.T) {
	d := MustDate("2024-01-01")

	f, err := d.Format("yyyy")
	require.NoError(t, err)
	assert.Equal(t, "Date.format", f.Func().Name())
	assert.Equal(t, "yyyy", f.Args()["format"])

	start := time.UnixMilli(1000)
	diff, err := d.Difference(start, "day")
	require.NoError(t, err)
	assert.Equal(t, "Date.difference", diff.Func().Name())
	startDate, ok := diff.Args()["start"].(*Date)
	require.True(t, ok)
	assert.Equal(t, int64(1000), startDate.Args()["value"])

	_, err = d.Call("nope")
	assert.True(t, apifunc.IsCallError(err, apifunc.ErrCodeUnknownMethod))

	_, err = d.Call("advance")
	assert.True(t, apifunc.IsCallError(err, apifunc.ErrCodeMissingArg))
}

func TestDateFromYMD(t *testing.T) {
	d, err := DateFromYMD(2024, 2, 29)
	require.NoError(t, err)
	assert.Equal(t, "Date.fromYMD", d.Func().Name())
	assert.Equal(t, map[string]any{"year": 2024, "month": 2, "day": 29}, d.Args())
}

func TestMustDatePanics(t *testing.T) {
	assert.Panics(t, func() { MustDate(true) })
}

func TestDateName(t *testing.T) {
	assert.Equal(t, "Date", MustDate(int64(0)).Name())
	assert.Contains(t, MustDate(int64(0)).String(), "ee.Date<Date(")
}
