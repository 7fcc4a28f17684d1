// Package stats provides the analysis.summary functor: count, mean,
// minimum and maximum over a numeric series held in the input container.
package stats

import (
	"context"
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/modelkit/functor/internal/container"
	"github.com/modelkit/functor/internal/functor"
	"github.com/modelkit/functor/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the functor with the application's registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&functor.Declaration{
		Name:        "summary",
		Namespace:   "analysis",
		Description: "Summary statistics over the numeric series at 'series'.",
		Required:    []string{"series"},
		Defaults: map[string]cty.Value{
			"trim": cty.NumberIntVal(0),
		},
		Returns: []string{"count", "mean", "min", "max"},
		Fn:      run,
	})
}

func run(ctx context.Context, data *container.Container, args functor.Args) (any, error) {
	raw, _ := data.Lookup("series")
	series, err := decodeSeries(raw)
	if err != nil {
		return nil, err
	}

	trim, err := decodeTrim(args.Get("trim"))
	if err != nil {
		return nil, err
	}
	if trim > 0 {
		if 2*trim >= len(series) {
			return nil, fmt.Errorf("trim %d leaves no elements in a series of %d", trim, len(series))
		}
		sort.Float64s(series)
		series = series[trim : len(series)-trim]
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("series must not be empty")
	}

	sum, minVal, maxVal := 0.0, series[0], series[0]
	for _, x := range series {
		sum += x
		if x < minVal {
			minVal = x
		}
		if x > maxVal {
			maxVal = x
		}
	}

	return map[string]any{
		"count": len(series),
		"mean":  sum / float64(len(series)),
		"min":   minVal,
		"max":   maxVal,
	}, nil
}

// decodeSeries accepts any cty collection whose elements convert to
// numbers.
func decodeSeries(val cty.Value) ([]float64, error) {
	if val.IsNull() || !val.CanIterateElements() {
		return nil, fmt.Errorf("'series' must be a collection of numbers, got %s", val.Type().FriendlyName())
	}
	var series []float64
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		num, err := convert.Convert(elem, cty.Number)
		if err != nil {
			return nil, fmt.Errorf("'series' element is not numeric: %w", err)
		}
		f, _ := num.AsBigFloat().Float64()
		series = append(series, f)
	}
	return series, nil
}

func decodeTrim(val cty.Value) (int, error) {
	if val == cty.NilVal || val.IsNull() {
		return 0, nil
	}
	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("'trim' must be a number: %w", err)
	}
	f, _ := num.AsBigFloat().Float64()
	trim := int(f)
	if trim < 0 {
		return 0, fmt.Errorf("'trim' must not be negative")
	}
	return trim, nil
}
