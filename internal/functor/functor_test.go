package functor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/modelkit/functor/internal/container"
	"github.com/modelkit/functor/internal/functor"
)

func mustNew(t *testing.T, decl *functor.Declaration) *functor.Functor {
	t.Helper()
	fn, err := functor.New(decl)
	require.NoError(t, err)
	return fn
}

func TestNew_RejectsInvalidDeclarations(t *testing.T) {
	t.Parallel()

	nop := func(ctx context.Context, data *container.Container, args functor.Args) (any, error) {
		return nil, nil
	}

	cases := []struct {
		name string
		decl *functor.Declaration
	}{
		{"Nil", nil},
		{"EmptyName", &functor.Declaration{Fn: nop}},
		{"NilFn", &functor.Declaration{Name: "f"}},
		{"EmptyRequiredPath", &functor.Declaration{Name: "f", Fn: nop, Required: []string{""}}},
		{"ReservedReturnLabel", &functor.Declaration{Name: "f", Fn: nop, Returns: []string{"data"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := functor.New(tc.decl)
			require.Error(t, err)
		})
	}
}

func TestCall_CoercesPlainMapBeforeFunction(t *testing.T) {
	t.Parallel()

	var seen *container.Container
	fn := mustNew(t, &functor.Declaration{
		Name: "probe",
		Fn: func(ctx context.Context, data *container.Container, args functor.Args) (any, error) {
			seen = data
			return nil, nil
		},
	})

	_, err := fn.Call(context.Background(), map[string]any{"x": 1}, nil)
	require.NoError(t, err)
	require.NotNil(t, seen)

	// The wrapped function sees a container whose key access and path
	// access agree on the coerced value.
	byKey, ok := seen.Get("x")
	require.True(t, ok)
	byPath, ok := seen.Lookup("x")
	require.True(t, ok)
	require.True(t, byKey.RawEquals(byPath))
	require.Equal(t, cty.NumberIntVal(1), byKey)
}

func TestCall_ResultAlwaysCarriesData(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		fn   functor.Func
	}{
		{"NilReturn", func(ctx context.Context, data *container.Container, args functor.Args) (any, error) {
			return nil, nil
		}},
		{"SameContainerReturn", func(ctx context.Context, data *container.Container, args functor.Args) (any, error) {
			return data, nil
		}},
		{"MapReturn", func(ctx context.Context, data *container.Container, args functor.Args) (any, error) {
			return map[string]any{"out": 1}, nil
		}},
		{"CtyMapReturn", func(ctx context.Context, data *container.Container, args functor.Args) (any, error) {
			return map[string]cty.Value{"out": cty.NumberIntVal(1)}, nil
		}},
		{"ObjectReturn", func(ctx context.Context, data *container.Container, args functor.Args) (any, error) {
			return cty.ObjectVal(map[string]cty.Value{"out": cty.NumberIntVal(1)}), nil
		}},
		{"FreshContainerReturn", func(ctx context.Context, data *container.Container, args functor.Args) (any, error) {
			out := container.New()
			require.NoError(t, out.Set("out", 1))
			return out, nil
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fn := mustNew(t, &functor.Declaration{Name: "f", Returns: []string{"out"}, Fn: tc.fn})
			result, err := fn.Call(context.Background(), map[string]any{"x": 1}, nil)
			require.NoError(t, err)
			require.True(t, result.Has(functor.DataLabel), "result must carry %q", functor.DataLabel)
		})
	}
}

func TestCall_DataReferencesOriginalInput(t *testing.T) {
	t.Parallel()

	fn := mustNew(t, &functor.Declaration{
		Name:    "f",
		Returns: []string{"out"},
		Fn: func(ctx context.Context, data *container.Container, args functor.Args) (any, error) {
			return map[string]any{"out": true}, nil
		},
	})

	result, err := fn.Call(context.Background(), map[string]any{"x": 1}, nil)
	require.NoError(t, err)

	data, ok := result.Get(functor.DataLabel)
	require.True(t, ok)
	require.Equal(t, cty.NumberIntVal(1), data.GetAttr("x"))

	// Path access drills through the wrapped input.
	x, ok := result.Lookup("data.x")
	require.True(t, ok)
	require.Equal(t, cty.NumberIntVal(1), x)
}

func TestCall_ExplicitDataKeyIsKept(t *testing.T) {
	t.Parallel()

	fn := mustNew(t, &functor.Declaration{
		Name: "f",
		Fn: func(ctx context.Context, data *container.Container, args functor.Args) (any, error) {
			return map[string]any{"data": map[string]any{"replaced": true}}, nil
		},
	})

	result, err := fn.Call(context.Background(), map[string]any{"x": 1}, nil)
	require.NoError(t, err)

	replaced, ok := result.Lookup("data.replaced")
	require.True(t, ok)
	require.True(t, replaced.True())
	_, ok = result.Lookup("data.x")
	require.False(t, ok, "explicit data key must not be overwritten")
}

func TestCall_RequiredPathValidation(t *testing.T) {
	t.Parallel()

	fn := mustNew(t, &functor.Declaration{
		Name:     "f",
		Required: []string{"x.y"},
		Fn: func(ctx context.Context, data *container.Container, args functor.Args) (any, error) {
			return nil, nil
		},
	})

	cases := []struct {
		name    string
		input   map[string]any
		wantErr bool
	}{
		{"Present", map[string]any{"x": map[string]any{"y": 5}}, false},
		{"AbsentLeaf", map[string]any{"x": map[string]any{"z": 5}}, true},
		{"AbsentRoot", map[string]any{}, true},
		{"NullLeaf", map[string]any{"x": map[string]any{"y": nil}}, true},
		{"NonContainerRoot", map[string]any{"x": 5}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fn.Call(context.Background(), tc.input, nil)
			if !tc.wantErr {
				require.NoError(t, err)
				return
			}
			var missing *functor.MissingArgumentError
			require.ErrorAs(t, err, &missing)
			require.Equal(t, "x.y", missing.Path)
			require.Equal(t, "f", missing.Functor)
		})
	}
}

func TestCall_MergesDefaultsUnderCallerArgs(t *testing.T) {
	t.Parallel()

	var got functor.Args
	fn := mustNew(t, &functor.Declaration{
		Name: "f",
		Defaults: map[string]cty.Value{
			"tol":  cty.NumberFloatVal(1e-6),
			"mode": cty.StringVal("fast"),
		},
		Fn: func(ctx context.Context, data *container.Container, args functor.Args) (any, error) {
			got = args
			return nil, nil
		},
	})

	_, err := fn.Call(context.Background(), map[string]any{}, functor.Args{
		"mode": cty.StringVal("careful"),
		"data": cty.StringVal("must not pass through"),
	})
	require.NoError(t, err)

	require.Equal(t, cty.NumberFloatVal(1e-6), got.Get("tol"))
	require.Equal(t, cty.StringVal("careful"), got.Get("mode"))
	require.Equal(t, cty.NilVal, got.Get("data"), "the data argument is reserved")
}

func TestCall_DataKeywordSuppliesInput(t *testing.T) {
	t.Parallel()

	fn := mustNew(t, &functor.Declaration{
		Name:     "f",
		Required: []string{"x"},
		Fn: func(ctx context.Context, data *container.Container, args functor.Args) (any, error) {
			return nil, nil
		},
	})

	_, err := fn.Call(context.Background(), nil, functor.Args{
		"data": cty.ObjectVal(map[string]cty.Value{"x": cty.NumberIntVal(1)}),
	})
	require.NoError(t, err)

	_, err = fn.Call(context.Background(), nil, nil)
	var missing *functor.MissingArgumentError
	require.ErrorAs(t, err, &missing)
}

func TestCall_UnexpectedReturnLabel(t *testing.T) {
	t.Parallel()

	fn := mustNew(t, &functor.Declaration{
		Name:    "f",
		Returns: []string{"out"},
		Fn: func(ctx context.Context, data *container.Container, args functor.Args) (any, error) {
			return map[string]any{"out": 1, "sneaky": 2}, nil
		},
	})

	_, err := fn.Call(context.Background(), map[string]any{}, nil)
	var unexpected *functor.UnexpectedReturnLabelError
	require.ErrorAs(t, err, &unexpected)
	require.Equal(t, "sneaky", unexpected.Label)
}

func TestCall_RejectsUnsupportedShapes(t *testing.T) {
	t.Parallel()

	fn := mustNew(t, &functor.Declaration{
		Name: "f",
		Fn: func(ctx context.Context, data *container.Container, args functor.Args) (any, error) {
			return 42, nil
		},
	})

	_, err := fn.Call(context.Background(), "not a mapping", nil)
	require.Error(t, err)

	_, err = fn.Call(context.Background(), map[string]any{}, nil)
	require.Error(t, err, "a bare int is not a valid return shape")
}

func TestQualifiedName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "f1", (&functor.Declaration{Name: "f1"}).QualifiedName())
	require.Equal(t, "utility.f1", (&functor.Declaration{Name: "f1", Namespace: "utility"}).QualifiedName())
}
