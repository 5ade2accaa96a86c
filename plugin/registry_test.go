package plugin_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mwantia/glue/command"
	"github.com/mwantia/glue/extension"
	"github.com/mwantia/glue/plugin"
)

func noop(ctx context.Context, tb *command.Toolbox) error { return nil }

func TestValidate(t *testing.T) {
	cases := map[string]*plugin.Config{
		"nil plugin":        nil,
		"empty name":        {Name: "", Version: "1.0.0"},
		"uppercase name":    {Name: "MyPlugin", Version: "1.0.0"},
		"leading dash":      {Name: "-bad", Version: "1.0.0"},
		"invalid version":   {Name: "ok", Version: "not-semver"},
		"bad peer range":    {Name: "ok", Version: "1.0.0", PeerPlugins: map[string]string{"peer": "???"}},
		"unnamed command":   {Name: "ok", Version: "1.0.0", Commands: []*command.Command{{}}},
		"unnamed extension": {Name: "ok", Version: "1.0.0", Extensions: []*extension.Config{{}}},
	}

	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			err := plugin.Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}

			var validationErr *plugin.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("error = %T, want *ValidationError", err)
			}
			if validationErr.Guidance == "" {
				t.Error("validation error carries no guidance")
			}
		})
	}

	t.Run("valid plugin", func(t *testing.T) {
		err := plugin.Validate(&plugin.Config{
			Name:        "my-plugin2",
			Version:     "1.2.3-beta.1",
			PeerPlugins: map[string]string{"other": ">= 1.0.0"},
		})
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
	})
}

func TestRegistry_Conflicts(t *testing.T) {
	t.Run("plugin command colliding with host command", func(t *testing.T) {
		registry := plugin.NewRegistry("1.0.0", nil)

		hostCmds := []*command.Command{{Name: "deploy", Run: noop}}
		if err := registry.SeedHost(hostCmds, nil); err != nil {
			t.Fatalf("SeedHost failed: %v", err)
		}

		err := registry.Register(&plugin.Config{
			Name:     "deployer",
			Version:  "1.0.0",
			Commands: []*command.Command{{Name: "deploy", Run: noop}},
		})
		if err == nil {
			t.Fatal("expected conflict error")
		}

		var conflict *plugin.ConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("error = %T, want *ConflictError", err)
		}
		if conflict.Plugin != "deployer" || conflict.Other != "host" || conflict.Name != "deploy" {
			t.Errorf("conflict = %+v, want deployer vs host over deploy", conflict)
		}
	})

	t.Run("alias collisions are checked both directions", func(t *testing.T) {
		registry := plugin.NewRegistry("1.0.0", nil)

		first := &plugin.Config{
			Name:     "first",
			Version:  "1.0.0",
			Commands: []*command.Command{{Name: "status", Aliases: []string{"st"}, Run: noop}},
		}
		if err := registry.Register(first); err != nil {
			t.Fatalf("Register failed: %v", err)
		}

		second := &plugin.Config{
			Name:     "second",
			Version:  "1.0.0",
			Commands: []*command.Command{{Name: "st", Run: noop}},
		}

		var conflict *plugin.ConflictError
		if err := registry.Register(second); !errors.As(err, &conflict) {
			t.Fatalf("error = %v, want *ConflictError", err)
		}
	})

	t.Run("extension name collision", func(t *testing.T) {
		registry := plugin.NewRegistry("1.0.0", nil)

		if err := registry.SeedHost(nil, []*extension.Config{{Name: "telemetry"}}); err != nil {
			t.Fatalf("SeedHost failed: %v", err)
		}

		err := registry.Register(&plugin.Config{
			Name:       "metrics",
			Version:    "1.0.0",
			Extensions: []*extension.Config{{Name: "telemetry"}},
		})

		var conflict *plugin.ConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("error = %v, want *ConflictError", err)
		}
		if conflict.Kind != "extension" {
			t.Errorf("Kind = %q, want extension", conflict.Kind)
		}
	})
}

func TestRegistry_Deduplication(t *testing.T) {
	registry := plugin.NewRegistry("1.0.0", nil)

	cfg := &plugin.Config{
		Name:     "tools",
		Version:  "1.0.0",
		Commands: []*command.Command{{Name: "fmt", Run: noop}},
	}

	if err := registry.Register(cfg); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if err := registry.Register(cfg); err != nil {
		t.Fatalf("duplicate Register must be a silent no-op, got: %v", err)
	}

	// Same name with a different version is still deduplicated
	other := &plugin.Config{Name: "tools", Version: "2.0.0"}
	if err := registry.Register(other); err != nil {
		t.Fatalf("version-mismatch Register must still dedupe, got: %v", err)
	}

	if got := len(registry.Plugins()); got != 1 {
		t.Errorf("Plugins() length = %d, want 1", got)
	}
	if got := len(registry.Commands()); got != 1 {
		t.Errorf("Commands() length = %d, want 1", got)
	}
}

func TestRegistry_RuntimeConstraint(t *testing.T) {
	registry := plugin.NewRegistry("1.0.0", nil)

	err := registry.Register(&plugin.Config{
		Name:              "future",
		Version:           "1.0.0",
		MinRuntimeVersion: ">= 2.0.0",
	})

	var depErr *plugin.DependencyError
	if !errors.As(err, &depErr) {
		t.Fatalf("error = %v, want *DependencyError", err)
	}
}

func TestRegistry_ValidateAll(t *testing.T) {
	t.Run("satisfied peers pass", func(t *testing.T) {
		registry := plugin.NewRegistry("1.0.0", nil)

		registerAll(t, registry,
			&plugin.Config{Name: "base", Version: "2.1.0"},
			&plugin.Config{Name: "addon", Version: "1.0.0", PeerPlugins: map[string]string{"base": "^2.0.0"}},
		)

		if err := registry.ValidateAll(); err != nil {
			t.Fatalf("ValidateAll failed: %v", err)
		}
	})

	t.Run("missing peer fails", func(t *testing.T) {
		registry := plugin.NewRegistry("1.0.0", nil)

		registerAll(t, registry,
			&plugin.Config{Name: "addon", Version: "1.0.0", PeerPlugins: map[string]string{"base": "^2.0.0"}},
		)

		var depErr *plugin.DependencyError
		if err := registry.ValidateAll(); !errors.As(err, &depErr) {
			t.Fatalf("error = %v, want *DependencyError", err)
		}
		if depErr.Peer != "base" || depErr.Version != "" {
			t.Errorf("dependency error = %+v, want missing base", depErr)
		}
	})

	t.Run("incompatible peer version fails", func(t *testing.T) {
		registry := plugin.NewRegistry("1.0.0", nil)

		registerAll(t, registry,
			&plugin.Config{Name: "base", Version: "1.0.0"},
			&plugin.Config{Name: "addon", Version: "1.0.0", PeerPlugins: map[string]string{"base": "^2.0.0"}},
		)

		var depErr *plugin.DependencyError
		if err := registry.ValidateAll(); !errors.As(err, &depErr) {
			t.Fatalf("error = %v, want *DependencyError", err)
		}
		if depErr.Version != "1.0.0" {
			t.Errorf("Version = %q, want 1.0.0", depErr.Version)
		}
	})

	t.Run("multiple violations aggregate", func(t *testing.T) {
		registry := plugin.NewRegistry("1.0.0", nil)

		registerAll(t, registry,
			&plugin.Config{Name: "one", Version: "1.0.0", PeerPlugins: map[string]string{"missing-a": "^1.0.0"}},
			&plugin.Config{Name: "two", Version: "1.0.0", PeerPlugins: map[string]string{"missing-b": "^1.0.0"}},
		)

		err := registry.ValidateAll()
		if err == nil {
			t.Fatal("expected aggregated error")
		}

		msg := err.Error()
		if !strings.Contains(msg, "missing-a") || !strings.Contains(msg, "missing-b") {
			t.Errorf("aggregated error %q must name both violations", msg)
		}
	})
}

func registerAll(t *testing.T, registry *plugin.Registry, configs ...*plugin.Config) {
	t.Helper()

	for _, cfg := range configs {
		if err := registry.Register(cfg); err != nil {
			t.Fatalf("Register(%s) failed: %v", cfg.Name, err)
		}
	}
}
