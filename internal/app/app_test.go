package app_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/modelkit/functor/internal/apidoc"
	"github.com/modelkit/functor/internal/testutil"
)

const summaryManifest = `
functor "summary" {
	namespace   = "analysis"
	description = "Summary statistics over a numeric series."

	input "series" { description = "Numeric series to summarize." }
	input "trim"   { default = 0 }

	output "count" {}
	output "mean"  { description = "Arithmetic mean." }
	output "min"   {}
	output "max"   {}
}
`

const boundsManifest = `
functor "bounds" {
	namespace   = "model"
	description = "Variable records outside their own bounds."

	input "variables" { description = "Variable records to check." }
	input "tol"       { default = 0.000001 }

	output "violations" {}
	output "count"      {}
}
`

func TestApp_ListsBuiltinFunctors(t *testing.T) {
	t.Parallel()

	result := testutil.BuildApp(t, nil, false)
	require.NoError(t, result.Err)
	require.NoError(t, result.App.Run(context.Background()))

	listing := result.Output.String()
	for _, name := range []string{
		"analysis.summary",
		"model.active",
		"model.bounds",
		"model.infeasible",
		"model.near_bounds",
		"net.fetch",
		"utility.env",
		"utility.print",
	} {
		require.Contains(t, listing, name)
	}
}

func TestApp_DetailedRenderingUsesManifest(t *testing.T) {
	t.Parallel()

	result := testutil.BuildApp(t, map[string]string{
		"manifests/summary.hcl": summaryManifest,
	}, true)
	require.NoError(t, result.Err)
	require.NoError(t, result.App.Run(context.Background()))

	var docs []apidoc.FunctorDoc
	require.NoError(t, json.Unmarshal(result.Output.Bytes(), &docs))

	var summary *apidoc.FunctorDoc
	for i := range docs {
		if docs[i].Namespace == "analysis" && docs[i].Name == "summary" {
			summary = &docs[i]
		}
	}
	require.NotNil(t, summary)
	require.Equal(t, "Summary statistics over a numeric series.", summary.Description)
	require.Equal(t, "series", summary.Inputs[0].Name)
	require.Equal(t, "Numeric series to summarize.", summary.Inputs[0].Description)
}

func TestApp_BoundsManifestPassesValidation(t *testing.T) {
	t.Parallel()

	result := testutil.BuildApp(t, map[string]string{
		"manifests/bounds.hcl": boundsManifest,
	}, false)
	require.NoError(t, result.Err)
}

func TestApp_ManifestParityMismatchFailsStartup(t *testing.T) {
	t.Parallel()

	result := testutil.BuildApp(t, map[string]string{
		"manifests/summary.hcl": `
			functor "summary" {
				namespace = "analysis"
				input "series" {}
				input "trim" { default = 0 }
				output "count" {}
				output "mean" {}
				output "min" {}
				output "max" {}
				output "variance" {}
			}
		`,
	}, false)

	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "application startup panicked")
	require.Contains(t, result.Err.Error(), `output "variance"`)
}

func TestApp_InvalidManifestFailsStartup(t *testing.T) {
	t.Parallel()

	result := testutil.BuildApp(t, map[string]string{
		"manifests/broken.hcl": `functor "x" {`,
	}, false)

	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "failed to parse")
}
