package command_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/mwantia/glue/command"
)

func testCommandSet() []*command.Command {
	noop := func(ctx context.Context, tb *command.Toolbox) error { return nil }

	return []*command.Command{
		{
			Name:    "db",
			Aliases: []string{"database"},
			Subcommands: []*command.Command{
				{Name: "migrate", Run: noop},
				{Name: "seed", Run: noop},
			},
		},
		{Name: "status", Description: "show project status", Run: noop},
		{Name: "settings", Run: noop},
		{Name: "sweep", Hidden: true, Run: noop},
	}
}

func TestRoute_ExactAndAlias(t *testing.T) {
	commands := testCommandSet()

	t.Run("name with tail", func(t *testing.T) {
		route := command.Route([]string{"status", "--json"}, commands)

		if route.Command == nil || route.Command.Name != "status" {
			t.Fatalf("Command = %v, want status", route.Command)
		}
		if !reflect.DeepEqual(route.Remaining, []string{"--json"}) {
			t.Errorf("Remaining = %v, want [--json]", route.Remaining)
		}
	})

	t.Run("alias resolves", func(t *testing.T) {
		route := command.Route([]string{"database", "seed"}, commands)

		if route.Command == nil || route.Command.Name != "seed" {
			t.Fatalf("Command = %v, want seed", route.Command)
		}
	})

	t.Run("matching is case-sensitive", func(t *testing.T) {
		route := command.Route([]string{"Status"}, commands)
		if route.Command != nil {
			t.Errorf("Command = %v, want nil", route.Command)
		}
	})
}

func TestRoute_Subcommands(t *testing.T) {
	commands := testCommandSet()

	t.Run("nested match", func(t *testing.T) {
		route := command.Route([]string{"db", "migrate"}, commands)

		if route.Command == nil || route.Command.Name != "migrate" {
			t.Fatalf("Command = %v, want migrate", route.Command)
		}
		if route.FullName != "db migrate" {
			t.Errorf("FullName = %q, want 'db migrate'", route.FullName)
		}
		if len(route.Remaining) != 0 {
			t.Errorf("Remaining = %v, want empty", route.Remaining)
		}
	})

	t.Run("unmatched sub-token returns the parent", func(t *testing.T) {
		route := command.Route([]string{"db", "unknown"}, commands)

		if route.Command == nil || route.Command.Name != "db" {
			t.Fatalf("Command = %v, want db", route.Command)
		}
		if !reflect.DeepEqual(route.Remaining, []string{"unknown"}) {
			t.Errorf("Remaining = %v, want [unknown]", route.Remaining)
		}
	})
}

func TestRoute_Suggestions(t *testing.T) {
	commands := testCommandSet()

	t.Run("close typo is suggested", func(t *testing.T) {
		route := command.Route([]string{"stats"}, commands)

		if route.Command != nil {
			t.Fatalf("Command = %v, want nil", route.Command)
		}
		if len(route.Suggestions) == 0 || route.Suggestions[0].Name != "status" {
			t.Fatalf("Suggestions = %v, want status first", route.Suggestions)
		}
	})

	t.Run("prefix qualifies beyond the distance threshold", func(t *testing.T) {
		route := command.Route([]string{"set"}, commands)

		found := false
		for _, suggestion := range route.Suggestions {
			if suggestion.Name == "settings" {
				found = true
			}
		}
		if !found {
			t.Errorf("Suggestions = %v, want settings included", route.Suggestions)
		}
	})

	t.Run("hidden commands never appear in suggestions", func(t *testing.T) {
		route := command.Route([]string{"swep"}, commands)

		for _, suggestion := range route.Suggestions {
			if suggestion.Name == "sweep" {
				t.Errorf("hidden command suggested: %v", route.Suggestions)
			}
		}
	})

	t.Run("hidden commands still resolve exactly", func(t *testing.T) {
		route := command.Route([]string{"sweep"}, commands)

		if route.Command == nil || route.Command.Name != "sweep" {
			t.Fatalf("Command = %v, want sweep", route.Command)
		}
	})

	t.Run("equal distances keep declaration order", func(t *testing.T) {
		set := []*command.Command{
			{Name: "aab"},
			{Name: "aba"},
		}

		route := command.Route([]string{"aaa"}, set)
		if len(route.Suggestions) != 2 {
			t.Fatalf("Suggestions = %v, want 2", route.Suggestions)
		}
		if route.Suggestions[0].Name != "aab" || route.Suggestions[1].Name != "aba" {
			t.Errorf("order = %v, want declaration order", route.Suggestions)
		}
	})
}

func TestFlatten(t *testing.T) {
	flat := command.Flatten(testCommandSet())

	names := make([]string, 0, len(flat))
	for _, entry := range flat {
		names = append(names, entry.FullName)
	}

	want := []string{"db", "db migrate", "db seed", "status", "settings", "sweep"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Flatten = %v, want %v", names, want)
	}
}
