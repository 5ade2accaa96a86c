package command

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mwantia/glue/log"
)

// ParseError reports malformed CLI input for a command. It is user-facing:
// the runtime prints the message and exits with status 1.
type ParseError struct {
	Command    string
	Field      string
	Reason     string
	Suggestion string
	Usage      string
}

func (e *ParseError) Error() string {
	var sb strings.Builder

	sb.WriteString("glue: ")
	if e.Command != "" {
		fmt.Fprintf(&sb, "invalid arguments for '%s': ", e.Command)
	}
	sb.WriteString(e.Reason)

	if e.Suggestion != "" {
		fmt.Fprintf(&sb, " (did you mean '%s'?)", e.Suggestion)
	}
	if e.Usage != "" {
		fmt.Fprintf(&sb, "\nusage: %s", e.Usage)
	}

	return sb.String()
}

// ParseResult holds the typed outcome of parsing one invocation. It is
// created fresh per invocation and discarded after use.
type ParseResult struct {
	// Command is the resolved command name
	Command string

	// Args maps declared positional names to coerced values
	Args map[string]any

	// Flags maps declared flag names to coerced values
	Flags map[string]any

	// Remaining holds positional tokens beyond the declared arguments
	Remaining []string

	// Raw is the unmodified token list handed to Parse
	Raw []string
}

// Parser turns raw tokens into typed values against a command's declared
// argument and flag schema.
type Parser struct {
	Log *log.Logger
}

func NewParser(logger *log.Logger) *Parser {
	if logger == nil {
		logger = log.Discard()
	}

	return &Parser{Log: logger}
}

// flagValue accumulates the raw occurrences of one flag before coercion.
type flagValue struct {
	set     bool
	negated bool
	raw     []string
	boolean *bool
}

// Parse validates tokens against the command schema and returns typed args
// and flags. Tokens after a literal "--" are always positional and are never
// interpreted as flags or negations.
func (p *Parser) Parse(tokens []string, cmd *Command) (*ParseResult, error) {
	result := &ParseResult{
		Command: cmd.Name,
		Args:    make(map[string]any),
		Flags:   make(map[string]any),
		Raw:     tokens,
	}

	values := make(map[string]*flagValue)
	record := func(name string) *flagValue {
		fv, ok := values[name]
		if !ok {
			fv = &flagValue{}
			values[name] = fv
		}
		return fv
	}

	var positionals []string

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]

		if token == "--" {
			positionals = append(positionals, tokens[i+1:]...)
			break
		}

		if name, ok := strings.CutPrefix(token, "--no-"); ok {
			flag := cmd.Flag(name)
			if flag == nil || flag.Type != TypeBoolean {
				return nil, &ParseError{
					Command: cmd.Name,
					Field:   "no-" + name,
					Reason:  fmt.Sprintf("unknown flag '--no-%s'", name),
					Usage:   cmd.Usage(),
				}
			}

			record(name).negated = true
			continue
		}

		if strings.HasPrefix(token, "--") {
			name, value, hasValue := cutLongFlag(token)

			flag := cmd.Flag(name)
			if flag == nil {
				return nil, &ParseError{
					Command: cmd.Name,
					Field:   name,
					Reason:  fmt.Sprintf("unknown flag '--%s'", name),
					Usage:   cmd.Usage(),
				}
			}

			if flag.Type == TypeBoolean {
				fv := record(name)
				fv.set = true
				b := true
				if hasValue {
					b = parseBoolToken(value)
				}
				fv.boolean = &b
				continue
			}

			if !hasValue {
				if i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "-") {
					value = tokens[i+1]
					i++
				} else {
					return nil, &ParseError{
						Command: cmd.Name,
						Field:   name,
						Reason:  fmt.Sprintf("flag '--%s' requires a value", name),
						Usage:   cmd.Usage(),
					}
				}
			}

			fv := record(name)
			fv.set = true
			fv.raw = append(fv.raw, value)
			continue
		}

		if strings.HasPrefix(token, "-") && len(token) > 1 && token != "-" {
			consumed, err := p.parseShort(tokens, i, cmd, record)
			if err != nil {
				return nil, err
			}

			i = consumed
			continue
		}

		positionals = append(positionals, token)
	}

	if err := p.assignArgs(cmd, positionals, result); err != nil {
		return nil, err
	}

	if err := p.assignFlags(cmd, values, result); err != nil {
		return nil, err
	}

	return result, nil
}

// parseShort handles one bundled short-flag token ("-ab", "-n5", "-n 5").
// It returns the index of the last consumed token.
func (p *Parser) parseShort(tokens []string, i int, cmd *Command, record func(string) *flagValue) (int, error) {
	shorts := tokens[i][1:]

	for j, r := range shorts {
		alias := string(r)

		flag := cmd.FlagByAlias(alias)
		if flag == nil {
			return i, &ParseError{
				Command: cmd.Name,
				Field:   alias,
				Reason:  fmt.Sprintf("unknown flag '-%s'", alias),
				Usage:   cmd.Usage(),
			}
		}

		if flag.Type == TypeBoolean {
			fv := record(flag.Name)
			fv.set = true
			b := true
			fv.boolean = &b
			continue
		}

		var value string
		if j+1 < len(shorts) {
			// Rest of the bundle is the value ("-n5")
			value = shorts[j+1:]
		} else if i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "-") {
			value = tokens[i+1]
			i++
		} else {
			return i, &ParseError{
				Command: cmd.Name,
				Field:   flag.Name,
				Reason:  fmt.Sprintf("flag '-%s' requires a value", alias),
				Usage:   cmd.Usage(),
			}
		}

		fv := record(flag.Name)
		fv.set = true
		fv.raw = append(fv.raw, value)
		break
	}

	return i, nil
}

func (p *Parser) assignArgs(cmd *Command, positionals []string, result *ParseResult) error {
	for idx, arg := range cmd.Args {
		if idx >= len(positionals) {
			if arg.Default != nil {
				result.Args[arg.Name] = arg.Default
				continue
			}
			if arg.Required {
				return &ParseError{
					Command: cmd.Name,
					Field:   arg.Name,
					Reason:  fmt.Sprintf("missing required argument '%s'", arg.Name),
					Usage:   cmd.Usage(),
				}
			}
			continue
		}

		value, err := coerceValue(cmd, arg.Name, arg.Type, positionals[idx])
		if err != nil {
			return err
		}

		if err := checkChoices(cmd, arg.Name, arg.Type, arg.Choices, value, positionals[idx]); err != nil {
			return err
		}

		if arg.Validate != nil {
			if err := arg.Validate(value); err != nil {
				return &ParseError{
					Command: cmd.Name,
					Field:   arg.Name,
					Reason:  fmt.Sprintf("invalid value for '%s': %v", arg.Name, err),
					Usage:   cmd.Usage(),
				}
			}
		}

		result.Args[arg.Name] = value
	}

	if extra := len(positionals) - len(cmd.Args); extra > 0 {
		result.Remaining = positionals[len(cmd.Args):]
		p.Log.Warn("command '%s' ignoring extra arguments: %s",
			cmd.Name, strings.Join(result.Remaining, " "))
	}

	return nil
}

func (p *Parser) assignFlags(cmd *Command, values map[string]*flagValue, result *ParseResult) error {
	for i := range cmd.Flags {
		flag := &cmd.Flags[i]
		fv := values[flag.Name]

		if fv == nil {
			if flag.Default != nil {
				result.Flags[flag.Name] = flag.Default
				continue
			}
			if flag.Required {
				return &ParseError{
					Command: cmd.Name,
					Field:   flag.Name,
					Reason:  fmt.Sprintf("missing required flag '--%s'", flag.Name),
					Usage:   cmd.Usage(),
				}
			}
			continue
		}

		value, raw, err := p.resolveFlag(cmd, flag, fv)
		if err != nil {
			return err
		}

		if err := checkChoices(cmd, flag.Name, flag.Type, flag.Choices, value, raw); err != nil {
			return err
		}

		if flag.Validate != nil {
			if err := flag.Validate(value); err != nil {
				return &ParseError{
					Command: cmd.Name,
					Field:   flag.Name,
					Reason:  fmt.Sprintf("invalid value for '--%s': %v", flag.Name, err),
					Usage:   cmd.Usage(),
				}
			}
		}

		result.Flags[flag.Name] = value
	}

	return nil
}

// resolveFlag coerces the accumulated occurrences of one flag into its final
// typed value. An explicit --<name> wins over --no-<name> regardless of the
// order the tokens appeared in.
func (p *Parser) resolveFlag(cmd *Command, flag *FlagDef, fv *flagValue) (any, string, error) {
	if flag.Type == TypeBoolean {
		if fv.set {
			return *fv.boolean, strconv.FormatBool(*fv.boolean), nil
		}
		// Only a negation was seen
		return false, "false", nil
	}

	switch flag.Type {
	case TypeString:
		raw := fv.raw[len(fv.raw)-1]
		return raw, raw, nil

	case TypeNumber:
		raw := fv.raw[len(fv.raw)-1]
		value, err := coerceValue(cmd, flag.Name, TypeNumber, raw)
		return value, raw, err

	case TypeStringSlice:
		return append([]string(nil), fv.raw...), strings.Join(fv.raw, ","), nil

	case TypeNumberSlice:
		numbers := make([]float64, 0, len(fv.raw))
		for _, raw := range fv.raw {
			value, err := coerceValue(cmd, flag.Name, TypeNumber, raw)
			if err != nil {
				return nil, raw, err
			}
			numbers = append(numbers, value.(float64))
		}
		return numbers, strings.Join(fv.raw, ","), nil

	default:
		raw := fv.raw[len(fv.raw)-1]
		return raw, raw, nil
	}
}

// coerceValue converts a raw token to its declared type. Numbers must parse
// to a finite float64.
func coerceValue(cmd *Command, field string, typ ValueType, raw string) (any, error) {
	switch typ {
	case TypeNumber, TypeNumberSlice:
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
			return nil, &ParseError{
				Command: cmd.Name,
				Field:   field,
				Reason:  fmt.Sprintf("'%s' expects a number, got '%s'", field, raw),
			}
		}
		return value, nil

	default:
		return raw, nil
	}
}

// checkChoices validates a value against a closed choice set. Number-typed
// fields compare numerically, so "1.0" matches a declared choice "1"; other
// types compare as strings.
func checkChoices(cmd *Command, field string, typ ValueType, choices []string, value any, raw string) error {
	if len(choices) == 0 {
		return nil
	}

	matches := func(candidate string) bool {
		if typ == TypeNumber || typ == TypeNumberSlice {
			want, err := strconv.ParseFloat(candidate, 64)
			if err != nil {
				return false
			}
			have, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return false
			}
			return want == have
		}
		return candidate == raw
	}

	switch typed := value.(type) {
	case []string:
		for _, item := range typed {
			if err := checkChoices(cmd, field, TypeString, choices, item, item); err != nil {
				return err
			}
		}
		return nil

	case []float64:
		for _, item := range typed {
			raw := strconv.FormatFloat(item, 'f', -1, 64)
			if err := checkChoices(cmd, field, TypeNumber, choices, item, raw); err != nil {
				return err
			}
		}
		return nil
	}

	for _, choice := range choices {
		if matches(choice) {
			return nil
		}
	}

	return &ParseError{
		Command:    cmd.Name,
		Field:      field,
		Reason:     fmt.Sprintf("'%s' must be one of [%s], got '%s'", field, strings.Join(choices, ", "), raw),
		Suggestion: closestChoice(raw, choices),
	}
}

func cutLongFlag(token string) (name, value string, hasValue bool) {
	token = strings.TrimPrefix(token, "--")
	if idx := strings.Index(token, "="); idx >= 0 {
		return token[:idx], token[idx+1:], true
	}

	return token, "", false
}

func parseBoolToken(value string) bool {
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
