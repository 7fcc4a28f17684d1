package stats_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/modelkit/functor/functors/stats"
	"github.com/modelkit/functor/internal/functor"
	"github.com/modelkit/functor/internal/registry"
)

func summary(t *testing.T) *functor.Functor {
	t.Helper()
	reg := registry.New()
	(&stats.Module{}).Register(reg)

	fn, err := reg.NewFunctor("analysis.summary")
	require.NoError(t, err)
	return fn
}

func number(t *testing.T, v cty.Value) float64 {
	t.Helper()
	f, _ := v.AsBigFloat().Float64()
	return f
}

func TestSummary_BasicStatistics(t *testing.T) {
	t.Parallel()

	result, err := summary(t).Call(context.Background(), map[string]any{
		"series": []any{4, 1, 3, 2},
	}, nil)
	require.NoError(t, err)

	count, ok := result.Get("count")
	require.True(t, ok)
	require.Equal(t, 4.0, number(t, count))

	mean, ok := result.Get("mean")
	require.True(t, ok)
	require.InDelta(t, 2.5, number(t, mean), 1e-12)

	minVal, ok := result.Get("min")
	require.True(t, ok)
	require.Equal(t, 1.0, number(t, minVal))

	maxVal, ok := result.Get("max")
	require.True(t, ok)
	require.Equal(t, 4.0, number(t, maxVal))

	require.True(t, result.Has("data"))
}

func TestSummary_TrimDropsExtremes(t *testing.T) {
	t.Parallel()

	result, err := summary(t).Call(context.Background(), map[string]any{
		"series": []any{100, 1, 2, 3, -50},
	}, functor.Args{"trim": cty.NumberIntVal(1)})
	require.NoError(t, err)

	count, _ := result.Get("count")
	require.Equal(t, 3.0, number(t, count))
	minVal, _ := result.Get("min")
	require.Equal(t, 1.0, number(t, minVal))
	maxVal, _ := result.Get("max")
	require.Equal(t, 3.0, number(t, maxVal))
}

func TestSummary_MissingSeries(t *testing.T) {
	t.Parallel()

	_, err := summary(t).Call(context.Background(), map[string]any{}, nil)
	var missing *functor.MissingArgumentError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "series", missing.Path)
}

func TestSummary_BadInputs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input map[string]any
		args  functor.Args
	}{
		{"NonNumericElement", map[string]any{"series": []any{1, "two"}}, nil},
		{"ScalarSeries", map[string]any{"series": 5}, nil},
		{"TrimTooLarge", map[string]any{"series": []any{1, 2}}, functor.Args{"trim": cty.NumberIntVal(1)}},
		{"NegativeTrim", map[string]any{"series": []any{1, 2, 3}}, functor.Args{"trim": cty.NumberIntVal(-1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := summary(t).Call(context.Background(), tc.input, tc.args)
			require.Error(t, err)
		})
	}
}
