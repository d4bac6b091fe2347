package entities

import "time"

// ResourceKey identifies a record within an account.
type ResourceKey struct {
	Kind Kind
	Name string
}

// ResourceRecord is the durable backing entity for a managed resource.
// Records are owned by exactly one account and keyed uniquely by
// (account, kind, name). Created on first apply, updated in place on
// subsequent applies, removed (with dependents) by delete.
type ResourceRecord struct {
	Manifest  map[string]any
	ID        string
	Account   string
	Kind      Kind
	Name      string
	Deployed  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy so store snapshots never alias caller state.
func (r *ResourceRecord) Clone() *ResourceRecord {
	out := *r
	out.Manifest = cloneMap(r.Manifest)
	return &out
}

// Status computes the server-side status block for this record.
func (r *ResourceRecord) Status() ResourceStatus {
	state := StateApplied
	if r.Deployed {
		state = StateDeployed
	}
	return ResourceStatus{
		State:     state,
		Deployed:  r.Deployed,
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
