package command_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/mwantia/glue/command"
)

func testCommand() *command.Command {
	return &command.Command{
		Name: "deploy",
		Args: []command.ArgDef{
			{Name: "environment", Type: command.TypeString, Required: true, Choices: []string{"staging", "production"}},
			{Name: "tag", Type: command.TypeString, Default: "latest"},
		},
		Flags: []command.FlagDef{
			{Name: "verbose", Type: command.TypeBoolean},
			{Name: "replicas", Alias: "r", Type: command.TypeNumber, Default: float64(1)},
			{Name: "region", Type: command.TypeString},
			{Name: "tag", Alias: "t", Type: command.TypeStringSlice},
			{Name: "weight", Type: command.TypeNumber, Choices: []string{"1", "2"}},
		},
	}
}

func parse(t *testing.T, tokens ...string) *command.ParseResult {
	t.Helper()

	result, err := command.NewParser(nil).Parse(tokens, testCommand())
	if err != nil {
		t.Fatalf("Parse(%v) failed: %v", tokens, err)
	}

	return result
}

func parseError(t *testing.T, tokens ...string) *command.ParseError {
	t.Helper()

	_, err := command.NewParser(nil).Parse(tokens, testCommand())
	if err == nil {
		t.Fatalf("Parse(%v) expected error", tokens)
	}

	var parseErr *command.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Parse(%v) returned %T, want *ParseError", tokens, err)
	}

	return parseErr
}

func TestParse_BooleanNegation(t *testing.T) {
	t.Run("negation sets false", func(t *testing.T) {
		result := parse(t, "staging", "--no-verbose")
		if result.Flags["verbose"] != false {
			t.Errorf("verbose = %v, want false", result.Flags["verbose"])
		}
	})

	t.Run("explicit wins regardless of order", func(t *testing.T) {
		result := parse(t, "staging", "--no-verbose", "--verbose")
		if result.Flags["verbose"] != true {
			t.Errorf("verbose = %v, want true", result.Flags["verbose"])
		}

		result = parse(t, "staging", "--verbose", "--no-verbose")
		if result.Flags["verbose"] != true {
			t.Errorf("verbose = %v, want true", result.Flags["verbose"])
		}
	})

	t.Run("negation after -- is a literal positional", func(t *testing.T) {
		result := parse(t, "staging", "latest", "--", "--no-verbose")

		if _, ok := result.Flags["verbose"]; ok {
			t.Errorf("verbose should be unset, got %v", result.Flags["verbose"])
		}
		if !reflect.DeepEqual(result.Remaining, []string{"--no-verbose"}) {
			t.Errorf("Remaining = %v, want [--no-verbose]", result.Remaining)
		}
	})

	t.Run("negating a non-boolean flag is unknown", func(t *testing.T) {
		parseErr := parseError(t, "staging", "--no-region")
		if !strings.Contains(parseErr.Reason, "--no-region") {
			t.Errorf("Reason = %q, want mention of --no-region", parseErr.Reason)
		}
	})
}

func TestParse_NumberCoercion(t *testing.T) {
	t.Run("valid number", func(t *testing.T) {
		result := parse(t, "staging", "--replicas", "3")
		if result.Flags["replicas"] != float64(3) {
			t.Errorf("replicas = %v, want 3", result.Flags["replicas"])
		}
	})

	t.Run("equals form", func(t *testing.T) {
		result := parse(t, "staging", "--replicas=5")
		if result.Flags["replicas"] != float64(5) {
			t.Errorf("replicas = %v, want 5", result.Flags["replicas"])
		}
	})

	t.Run("non-numeric fails naming the field", func(t *testing.T) {
		parseErr := parseError(t, "staging", "--replicas", "lots")
		if parseErr.Field != "replicas" {
			t.Errorf("Field = %q, want replicas", parseErr.Field)
		}
		if !strings.Contains(parseErr.Reason, "number") {
			t.Errorf("Reason = %q, want mention of expected type", parseErr.Reason)
		}
	})

	t.Run("non-finite fails", func(t *testing.T) {
		parseError(t, "staging", "--replicas=1e999")
	})
}

func TestParse_Choices(t *testing.T) {
	t.Run("numeric equality ignores textual form", func(t *testing.T) {
		result := parse(t, "staging", "--weight", "1.0")
		if result.Flags["weight"] != float64(1) {
			t.Errorf("weight = %v, want 1", result.Flags["weight"])
		}
	})

	t.Run("numeric mismatch is rejected", func(t *testing.T) {
		parseErr := parseError(t, "staging", "--weight", "7")
		if !strings.Contains(parseErr.Reason, "one of") {
			t.Errorf("Reason = %q, want choice listing", parseErr.Reason)
		}
	})

	t.Run("string typo suggests nearest choice", func(t *testing.T) {
		parseErr := parseError(t, "stagin")
		if parseErr.Suggestion != "staging" {
			t.Errorf("Suggestion = %q, want staging", parseErr.Suggestion)
		}
		if !strings.Contains(parseErr.Error(), "did you mean 'staging'") {
			t.Errorf("Error() = %q, want did-you-mean hint", parseErr.Error())
		}
	})

	t.Run("distant typo has no suggestion", func(t *testing.T) {
		parseErr := parseError(t, "qa")
		if parseErr.Suggestion != "" {
			t.Errorf("Suggestion = %q, want none", parseErr.Suggestion)
		}
	})
}

func TestParse_RequiredAndDefaults(t *testing.T) {
	t.Run("missing required argument includes usage", func(t *testing.T) {
		parseErr := parseError(t)
		if parseErr.Field != "environment" {
			t.Errorf("Field = %q, want environment", parseErr.Field)
		}
		if parseErr.Usage == "" {
			t.Error("Usage hint missing")
		}
	})

	t.Run("defaults apply only when absent", func(t *testing.T) {
		result := parse(t, "staging")
		if result.Args["tag"] != "latest" {
			t.Errorf("tag = %v, want latest", result.Args["tag"])
		}
		if result.Flags["replicas"] != float64(1) {
			t.Errorf("replicas = %v, want default 1", result.Flags["replicas"])
		}
	})

	t.Run("empty explicit value beats default", func(t *testing.T) {
		result := parse(t, "staging", "--region", "")
		if result.Flags["region"] != "" {
			t.Errorf("region = %v, want empty string", result.Flags["region"])
		}
	})
}

func TestParse_UnknownAndExtra(t *testing.T) {
	t.Run("unknown flag fails", func(t *testing.T) {
		parseErr := parseError(t, "staging", "--cluster", "a")
		if !strings.Contains(parseErr.Reason, "--cluster") {
			t.Errorf("Reason = %q, want mention of --cluster", parseErr.Reason)
		}
	})

	t.Run("unknown short flag fails", func(t *testing.T) {
		parseError(t, "staging", "-x")
	})

	t.Run("extra positionals are preserved, not errors", func(t *testing.T) {
		result := parse(t, "staging", "latest", "one", "two")
		if !reflect.DeepEqual(result.Remaining, []string{"one", "two"}) {
			t.Errorf("Remaining = %v, want [one two]", result.Remaining)
		}
	})
}

func TestParse_ShortFlagsAndSlices(t *testing.T) {
	t.Run("short alias with value", func(t *testing.T) {
		result := parse(t, "staging", "-r", "4")
		if result.Flags["replicas"] != float64(4) {
			t.Errorf("replicas = %v, want 4", result.Flags["replicas"])
		}
	})

	t.Run("short alias with attached value", func(t *testing.T) {
		result := parse(t, "staging", "-r4")
		if result.Flags["replicas"] != float64(4) {
			t.Errorf("replicas = %v, want 4", result.Flags["replicas"])
		}
	})

	t.Run("repeated slice flag accumulates", func(t *testing.T) {
		result := parse(t, "staging", "--tag", "a", "--tag", "b")
		if !reflect.DeepEqual(result.Flags["tag"], []string{"a", "b"}) {
			t.Errorf("tag = %v, want [a b]", result.Flags["tag"])
		}
	})
}

func TestParse_RawPreserved(t *testing.T) {
	tokens := []string{"staging", "--verbose"}

	result := parse(t, tokens...)
	if !reflect.DeepEqual(result.Raw, tokens) {
		t.Errorf("Raw = %v, want %v", result.Raw, tokens)
	}
	if result.Command != "deploy" {
		t.Errorf("Command = %q, want deploy", result.Command)
	}
}
