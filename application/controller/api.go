package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// apiStrategy backs a plugin with an outbound HTTP call. Bind validates
// the endpoint; Fetch merges runtime parameters into the query string and
// decodes a JSON response body.
type apiStrategy struct {
	c        *PluginController
	endpoint *url.URL
}

func newAPIStrategy(c *PluginController) Strategy {
	return &apiStrategy{c: c}
}

// Bind parses and retains the endpoint URL.
func (s *apiStrategy) Bind(context.Context) error {
	spec := s.c.manifest.Spec.APIData
	if spec == nil {
		return fmt.Errorf("plugin %s: apiData is absent", s.c.manifest.Metadata.Name)
	}
	endpoint, err := url.Parse(spec.Endpoint)
	if err != nil {
		return fmt.Errorf("plugin %s: endpoint: %w", s.c.manifest.Metadata.Name, err)
	}
	s.endpoint = endpoint
	return nil
}

// Fetch issues the configured request and decodes the response.
func (s *apiStrategy) Fetch(ctx context.Context, params map[string]any) (map[string]any, error) {
	spec := s.c.manifest.Spec.APIData

	target := *s.endpoint
	query := target.Query()
	for k, v := range spec.Query {
		query.Set(k, v)
	}
	for k, v := range params {
		query.Set(k, fmt.Sprintf("%v", v))
	}
	target.RawQuery = query.Encode()

	method := spec.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), nil)
	if err != nil {
		return nil, err
	}
	for k, v := range spec.Headers {
		req.Header.Set(k, v)
	}

	resp, err := s.c.config.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("plugin %s: request: %w", s.c.manifest.Metadata.Name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("plugin %s: upstream returned %d", s.c.manifest.Metadata.Name, resp.StatusCode)
	}

	out := map[string]any{"statusCode": resp.StatusCode}
	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "json") {
		var decoded any
		if err := json.Unmarshal(body, &decoded); err != nil {
			return nil, fmt.Errorf("plugin %s: decode response: %w", s.c.manifest.Metadata.Name, err)
		}
		out["body"] = decoded
	} else {
		out["body"] = string(body)
	}
	return out, nil
}

// Close is a no-op; the HTTP client is shared.
func (s *apiStrategy) Close() error {
	return nil
}
