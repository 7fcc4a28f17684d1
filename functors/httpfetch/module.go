// Package httpfetch provides the net.fetch functor, which performs a
// single HTTP request against the URL held in the input container.
package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/modelkit/functor/internal/container"
	"github.com/modelkit/functor/internal/ctxlog"
	"github.com/modelkit/functor/internal/functor"
	"github.com/modelkit/functor/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// httpClient is shared across all fetch invocations to reuse TCP
// connections.
var httpClient = &http.Client{}

// Register registers the functor with the application's registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&functor.Declaration{
		Name:        "fetch",
		Namespace:   "net",
		Description: "Perform an HTTP request against the URL at 'url'.",
		Required:    []string{"url"},
		Defaults: map[string]cty.Value{
			"method":  cty.StringVal(http.MethodGet),
			"timeout": cty.StringVal("30s"),
		},
		Returns: []string{"status"},
		Fn:      run,
	})
}

func run(ctx context.Context, data *container.Container, args functor.Args) (any, error) {
	logger := ctxlog.FromContext(ctx)

	rawURL, _ := data.Lookup("url")
	urlVal, err := convert.Convert(rawURL, cty.String)
	if err != nil {
		return nil, fmt.Errorf("'url' must be a string: %w", err)
	}
	url := urlVal.AsString()

	method, err := stringArg(args, "method", http.MethodGet)
	if err != nil {
		return nil, err
	}
	timeoutStr, err := stringArg(args, "timeout", "30s")
	if err != nil {
		return nil, err
	}
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid 'timeout' value %q: %w", timeoutStr, err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	logger.Debug("Executing HTTP request.", "method", method, "url", url)
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return nil, fmt.Errorf("failed to drain response body: %w", err)
	}

	logger.Info("HTTP request finished.", "url", url, "status", resp.StatusCode)
	return map[string]any{"status": resp.StatusCode}, nil
}

func stringArg(args functor.Args, name, fallback string) (string, error) {
	val := args.Get(name)
	if val == cty.NilVal || val.IsNull() {
		return fallback, nil
	}
	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("%q must be a string: %w", name, err)
	}
	return str.AsString(), nil
}
