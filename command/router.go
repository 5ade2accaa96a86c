package command

// RouteResult is the outcome of resolving a token sequence against a command
// set. Created fresh per invocation.
type RouteResult struct {
	// Command is the matched command, or nil when nothing resolved
	Command *Command

	// FullName is the space-joined path of the matched command
	FullName string

	// Remaining holds the tokens left over after routing
	Remaining []string

	// Suggestions holds ranked candidates when no command matched
	Suggestions []Suggestion
}

// Route resolves the leading tokens to a command. The first token is matched
// against each top-level command's name, then its aliases, exact and
// case-sensitive. When the match has subcommands and another token follows,
// routing recurses; a sub-token that matches no subcommand returns the
// parent with the token retained in Remaining — the parent decides what to
// do with it.
//
// Hidden commands resolve by exact match but are excluded from suggestions.
func Route(tokens []string, commands []*Command) *RouteResult {
	if len(tokens) == 0 {
		return &RouteResult{}
	}

	token := tokens[0]
	rest := tokens[1:]

	for _, cmd := range commands {
		if !cmd.Matches(token) {
			continue
		}

		if len(cmd.Subcommands) > 0 && len(rest) > 0 {
			sub := Route(rest, cmd.Subcommands)
			if sub.Command != nil {
				sub.FullName = cmd.Name + " " + sub.FullName
				return sub
			}
		}

		return &RouteResult{
			Command:   cmd,
			FullName:  cmd.Name,
			Remaining: rest,
		}
	}

	return &RouteResult{
		Remaining:   tokens,
		Suggestions: Suggest(token, commands),
	}
}
