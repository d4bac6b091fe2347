package controller

import (
	"context"
	"fmt"
)

// staticStrategy serves the inline rows declared in staticData. Rows
// matching every given parameter (by field equality) are returned.
type staticStrategy struct {
	c *PluginController
}

func newStaticStrategy(c *PluginController) Strategy {
	return &staticStrategy{c: c}
}

// Bind checks the data block is present. The schema layer guarantees it
// for validated manifests; the check covers direct construction.
func (s *staticStrategy) Bind(context.Context) error {
	if s.c.manifest.Spec.StaticData == nil || len(s.c.manifest.Spec.StaticData.Items) == 0 {
		return fmt.Errorf("plugin %s: staticData has no items", s.c.manifest.Metadata.Name)
	}
	return nil
}

// Fetch filters the inline rows by parameter equality. No matches is an
// empty row set, never null.
func (s *staticStrategy) Fetch(_ context.Context, params map[string]any) (map[string]any, error) {
	rows := make([]map[string]any, 0, len(s.c.manifest.Spec.StaticData.Items))
	for _, item := range s.c.manifest.Spec.StaticData.Items {
		if matches(item, params) {
			rows = append(rows, item)
		}
	}
	return map[string]any{"rows": rows, "count": len(rows)}, nil
}

// Close is a no-op; static data holds no resources.
func (s *staticStrategy) Close() error {
	return nil
}

func matches(item map[string]any, params map[string]any) bool {
	for k, want := range params {
		got, ok := item[k]
		if !ok || fmt.Sprintf("%v", got) != fmt.Sprintf("%v", want) {
			return false
		}
	}
	return true
}
