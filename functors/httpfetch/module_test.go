package httpfetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/modelkit/functor/functors/httpfetch"
	"github.com/modelkit/functor/internal/functor"
	"github.com/modelkit/functor/internal/registry"
)

func fetch(t *testing.T) *functor.Functor {
	t.Helper()
	reg := registry.New()
	(&httpfetch.Module{}).Register(reg)

	fn, err := reg.NewFunctor("net.fetch")
	require.NoError(t, err)
	return fn
}

func TestFetch_ReturnsStatus(t *testing.T) {
	t.Parallel()

	var gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	result, err := fetch(t).Call(context.Background(), map[string]any{"url": server.URL}, nil)
	require.NoError(t, err)
	require.Equal(t, http.MethodGet, gotMethod)

	status, ok := result.Get("status")
	require.True(t, ok)
	require.True(t, cty.NumberIntVal(http.StatusTeapot).RawEquals(status))
	require.True(t, result.Has("data"))
}

func TestFetch_MethodOverride(t *testing.T) {
	t.Parallel()

	var gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
	}))
	defer server.Close()

	_, err := fetch(t).Call(context.Background(), map[string]any{"url": server.URL},
		functor.Args{"method": cty.StringVal(http.MethodHead)})
	require.NoError(t, err)
	require.Equal(t, http.MethodHead, gotMethod)
}

func TestFetch_MissingURL(t *testing.T) {
	t.Parallel()

	_, err := fetch(t).Call(context.Background(), map[string]any{}, nil)
	var missing *functor.MissingArgumentError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "url", missing.Path)
}

func TestFetch_InvalidTimeout(t *testing.T) {
	t.Parallel()

	_, err := fetch(t).Call(context.Background(), map[string]any{"url": "http://localhost"},
		functor.Args{"timeout": cty.StringVal("soon")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "timeout")
}
