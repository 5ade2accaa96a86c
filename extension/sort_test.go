package extension_test

import (
	"errors"
	"testing"

	"github.com/mwantia/glue/extension"
)

func names(configs []*extension.Config) []string {
	out := make([]string, 0, len(configs))
	for _, cfg := range configs {
		out = append(out, cfg.Name)
	}

	return out
}

func indexOf(list []string, want string) int {
	for i, name := range list {
		if name == want {
			return i
		}
	}

	return -1
}

func TestSort_Linear(t *testing.T) {
	sorted, err := extension.Sort([]*extension.Config{
		{Name: "a"},
		{Name: "b", Dependencies: []string{"a"}},
	})
	if err != nil {
		t.Fatalf("Sort failed: %v", err)
	}

	got := names(sorted)
	if got[0] != "a" || got[1] != "b" {
		t.Errorf("order = %v, want [a b]", got)
	}
}

func TestSort_Diamond(t *testing.T) {
	sorted, err := extension.Sort([]*extension.Config{
		{Name: "d", Dependencies: []string{"b", "c"}},
		{Name: "b", Dependencies: []string{"a"}},
		{Name: "c", Dependencies: []string{"a"}},
		{Name: "a"},
	})
	if err != nil {
		t.Fatalf("Sort failed: %v", err)
	}

	got := names(sorted)
	if len(got) != 4 {
		t.Fatalf("output length = %d, want 4", len(got))
	}

	edges := [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}}
	for _, edge := range edges {
		if indexOf(got, edge[0]) > indexOf(got, edge[1]) {
			t.Errorf("order = %v violates edge %s -> %s", got, edge[0], edge[1])
		}
	}
}

func TestSort_TiesKeepDeclarationOrder(t *testing.T) {
	sorted, err := extension.Sort([]*extension.Config{
		{Name: "one"},
		{Name: "two"},
		{Name: "three"},
	})
	if err != nil {
		t.Fatalf("Sort failed: %v", err)
	}

	got := names(sorted)
	want := []string{"one", "two", "three"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSort_AbsentDependenciesAreDropped(t *testing.T) {
	sorted, err := extension.Sort([]*extension.Config{
		{Name: "a", Dependencies: []string{"external"}},
	})
	if err != nil {
		t.Fatalf("Sort failed: %v", err)
	}

	if len(sorted) != 1 || sorted[0].Name != "a" {
		t.Errorf("order = %v, want [a]", names(sorted))
	}
}

func TestSort_CycleFails(t *testing.T) {
	_, err := extension.Sort([]*extension.Config{
		{Name: "a", Dependencies: []string{"b"}},
		{Name: "b", Dependencies: []string{"a"}},
		{Name: "c"},
	})
	if err == nil {
		t.Fatal("expected cycle error")
	}

	var cycleErr *extension.CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("error = %T, want *CycleError", err)
	}

	if indexOf(cycleErr.Names, "a") < 0 || indexOf(cycleErr.Names, "b") < 0 {
		t.Errorf("cycle names = %v, want a and b", cycleErr.Names)
	}
	if indexOf(cycleErr.Names, "c") >= 0 {
		t.Errorf("cycle names = %v must not include c", cycleErr.Names)
	}
}
