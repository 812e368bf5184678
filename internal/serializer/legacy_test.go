package serializer

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eegraph/internal/computed"
	"github.com/roach88/eegraph/internal/ee"
	"github.com/roach88/eegraph/internal/ir"
)

func dateInvocation(value ir.Value) ir.Object {
	return ir.Object{
		"type":         ir.String("Invocation"),
		"functionName": ir.String("Date"),
		"arguments":    ir.Object{"value": value},
	}
}

func valueRef(name string) ir.Object {
	return ir.Object{"type": ir.String("ValueRef"), "value": ir.String(name)}
}

func TestEncodeScalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want ir.Value
	}{
		{"nil", nil, ir.Null{}},
		{"bool", true, ir.Bool(true)},
		{"string", "abc", ir.String("abc")},
		{"int", 3, ir.Int(3)},
		{"uint8", uint8(4), ir.Int(4)},
		{"float", 1.25, ir.Float(1.25)},
		{"wire value", ir.String("pre"), ir.String("pre")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.in)
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.want, got))
		})
	}
}

func TestEncodeSingleHoistedValueIsUnwrapped(t *testing.T) {
	got, err := Encode(ee.MustDate(int64(5)))
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(dateInvocation(ir.Int(5)), got))
}

func TestEncodeDeduplicatesScope(t *testing.T) {
	d := ee.MustDate(int64(5))
	l := ee.MustList([]any{d, d})

	got, err := Encode(l)
	require.NoError(t, err)

	want := ir.Object{
		"type": ir.String("CompoundValue"),
		"scope": ir.Array{
			ir.Array{ir.String("0"), dateInvocation(ir.Int(5))},
			ir.Array{ir.String("1"), ir.Array{valueRef("0"), valueRef("0")}},
		},
		"value": valueRef("1"),
	}
	assert.Empty(t, cmp.Diff(want, got))
}

func TestEncodeNotCompound(t *testing.T) {
	d := ee.MustDate(int64(5))
	l := ee.MustList([]any{d, d})

	got, err := Encode(l, WithCompound(false))
	require.NoError(t, err)

	want := ir.Array{dateInvocation(ir.Int(5)), dateInvocation(ir.Int(5))}
	assert.Empty(t, cmp.Diff(want, got))
}

func TestEncodeArgumentRefStaysInline(t *testing.T) {
	d, err := ee.NewDate(computed.NewVariable("x"))
	require.NoError(t, err)

	got, err := Encode(d)
	require.NoError(t, err)

	want := dateInvocation(ir.Object{
		"type":  ir.String("ArgumentRef"),
		"value": ir.String("x"),
	})
	assert.Empty(t, cmp.Diff(want, got))
}

func TestEncodeDictionary(t *testing.T) {
	got, err := Encode(map[string]any{"a": 1, "b": []any{}})
	require.NoError(t, err)

	want := ir.Object{
		"type": ir.String("CompoundValue"),
		"scope": ir.Array{
			ir.Array{ir.String("0"), ir.Array{}},
			ir.Array{ir.String("1"), ir.Object{
				"type":  ir.String("Dictionary"),
				"value": ir.Object{"a": ir.Int(1), "b": valueRef("0")},
			}},
		},
		"value": valueRef("1"),
	}
	assert.Empty(t, cmp.Diff(want, got))
}

func TestEncodeTimeFloorsMillis(t *testing.T) {
	got, err := Encode(time.UnixMicro(-1500), WithCompound(false))
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(dateInvocation(ir.Int(-2)), got))
}

func TestEncodeUnsupported(t *testing.T) {
	_, err := Encode([]any{1, struct{}{}})
	require.Error(t, err)
	assert.True(t, IsUnsupportedValue(err))
	assert.Contains(t, err.Error(), "[1]")
	assert.Contains(t, err.Error(), "struct {}")

	_, err = Encode(map[string]any{"k": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `["k"]`)
}

func TestEncodeLogsWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Encode(ee.MustList([]any{1}), WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "encoded legacy graph")
	assert.Contains(t, buf.String(), "scope=1")
}

func TestToJSONGolden(t *testing.T) {
	d := ee.MustDate(int64(5))
	out, err := ToJSON(ee.MustList([]any{d, d}))
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "legacy_shared_date", out)
}
