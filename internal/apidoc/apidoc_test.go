package apidoc_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/modelkit/functor/internal/apidoc"
	"github.com/modelkit/functor/internal/container"
	"github.com/modelkit/functor/internal/functor"
	"github.com/modelkit/functor/internal/registry"
)

func buildRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	nop := func(ctx context.Context, data *container.Container, args functor.Args) (any, error) {
		return nil, nil
	}

	reg := registry.New()
	reg.Register(&functor.Declaration{
		Name:        "summary",
		Namespace:   "analysis",
		Description: "Summary statistics.",
		Required:    []string{"series"},
		Defaults:    map[string]cty.Value{"trim": cty.NumberIntVal(0)},
		Returns:     []string{"mean"},
		Fn:          nop,
	})
	reg.Register(&functor.Declaration{
		Name:        "print",
		Namespace:   "utility",
		Description: "Print the input.",
		Fn:          nop,
	})
	return reg
}

func TestRender_GroupsByNamespace(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, apidoc.Render(&out, buildRegistry(t)))

	text := out.String()
	require.Contains(t, text, "analysis:")
	require.Contains(t, text, "utility:")
	require.Contains(t, text, "analysis.summary")
	require.Contains(t, text, "Summary statistics.")
	require.Less(t, strings.Index(text, "analysis:"), strings.Index(text, "utility:"))
}

func TestRender_EmptyRegistry(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, apidoc.Render(&out, registry.New()))
	require.Contains(t, out.String(), "No functors registered.")
}

func TestRenderDetailed_StructuredDocument(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, apidoc.RenderDetailed(&out, buildRegistry(t)))

	var docs []apidoc.FunctorDoc
	require.NoError(t, json.Unmarshal(out.Bytes(), &docs))
	require.Len(t, docs, 2)

	summary := docs[0]
	require.Equal(t, "summary", summary.Name)
	require.Equal(t, "analysis", summary.Namespace)
	require.Len(t, summary.Inputs, 2)
	require.Equal(t, "series", summary.Inputs[0].Name)
	require.True(t, summary.Inputs[0].Required)
	require.Equal(t, "trim", summary.Inputs[1].Name)
	require.False(t, summary.Inputs[1].Required)
	require.JSONEq(t, "0", string(summary.Inputs[1].Default))
	require.Len(t, summary.Returns, 1)
	require.Equal(t, "mean", summary.Returns[0].Name)
}

func TestCollect_MergesManifestDescriptions(t *testing.T) {
	t.Parallel()

	// Collect without manifests falls back to declaration descriptions.
	docs, err := apidoc.Collect(buildRegistry(t))
	require.NoError(t, err)
	require.Equal(t, "Summary statistics.", docs[0].Description)
	require.Equal(t, "Print the input.", docs[1].Description)
}
