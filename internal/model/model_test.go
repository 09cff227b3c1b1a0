package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func tree() []Feature {
	return []Feature{
		{
			Name:  "Billing",
			Owner: "team-pay",
			Path:  "features/billing",
			Features: []Feature{
				{
					Name:             "Invoices",
					Owner:            "team-pay",
					IsOwnerInherited: true,
					Path:             "features/billing/features/invoices",
					Features:         []Feature{},
					Changes:          []Change{{Title: "feat: add invoices", Hash: "abc"}},
				},
			},
			Decisions: []string{"# ADR-1"},
		},
		{
			Name:     "Search",
			Owner:    "team-find",
			Path:     "features/search",
			Features: []Feature{},
		},
	}
}

func TestFlatten(t *testing.T) {
	flat := Flatten(tree())

	if len(flat) != 3 {
		t.Fatalf("Flatten returned %d features, want 3", len(flat))
	}
	wantOrder := []string{"features/billing", "features/billing/features/invoices", "features/search"}
	for i, want := range wantOrder {
		if flat[i].Path != want {
			t.Errorf("flat[%d].Path = %q, want %q", i, flat[i].Path, want)
		}
	}

	// Flat entries carry no sub-tree or per-feature history.
	for _, f := range flat {
		if len(f.Features) != 0 {
			t.Errorf("flat feature %q still has %d children", f.Path, len(f.Features))
		}
		if len(f.Changes) != 0 || len(f.Decisions) != 0 {
			t.Errorf("flat feature %q still carries changes/decisions", f.Path)
		}
	}

	// Owner metadata survives flattening.
	if !flat[1].IsOwnerInherited {
		t.Error("flat[1].IsOwnerInherited = false, want true")
	}
}

func TestUniqueOwners(t *testing.T) {
	owners := UniqueOwners(tree())

	want := []string{"team-find", "team-pay"}
	if len(owners) != len(want) {
		t.Fatalf("UniqueOwners = %v, want %v", owners, want)
	}
	for i := range want {
		if owners[i] != want[i] {
			t.Errorf("owners[%d] = %q, want %q", i, owners[i], want[i])
		}
	}
}

func TestCountFeatures(t *testing.T) {
	if got := CountFeatures(tree()); got != 3 {
		t.Errorf("CountFeatures = %d, want 3", got)
	}
	if got := CountFeatures(nil); got != 0 {
		t.Errorf("CountFeatures(nil) = %d, want 0", got)
	}
}

func TestFeatureJSONFieldNames(t *testing.T) {
	f := Feature{
		Name:         "Billing",
		Path:         "features/billing",
		Features:     []Feature{},
		Meta:         map[string]interface{}{},
		Changes:      []Change{},
		Decisions:    []string{},
		Dependencies: []Dependency{{Type: DependencySibling}},
	}

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	body := string(data)

	for _, field := range []string{
		`"name"`, `"description"`, `"owner"`, `"is_owner_inherited"`,
		`"path"`, `"features"`, `"meta"`, `"changes"`, `"decisions"`,
		`"dependencies"`, `"sourceFilename"`, `"targetFilename"`,
		`"featurePath"`, `"sibling"`,
	} {
		if !strings.Contains(body, field) {
			t.Errorf("serialized feature missing %s: %s", field, body)
		}
	}
	if strings.Contains(body, `"stats"`) {
		t.Errorf("nil stats should be omitted: %s", body)
	}
}
