package shell

import (
	"errors"
)

// Parse errors; compare with errors.Is.
var (
	ErrEmptyStage            = errors.New("syntax error: empty pipeline stage")
	ErrMissingRedirectTarget = errors.New("syntax error: redirection needs a target")
	ErrMisplacedBackground   = errors.New("syntax error: '&' must end the line")
	ErrEmptyPipeline         = errors.New("syntax error: empty command")
)

// Command is one stage of a pipeline.
type Command struct {
	Argv    []string // Argv[0] is the program name; never empty after Parse.
	Infile  string   // "" if stdin comes from the terminal or the previous pipe.
	Outfile string   // "" if stdout goes to the terminal or the next pipe.
	Append  bool     // open Outfile for append rather than truncate.
}

func (c *Command) empty() bool {
	return len(c.Argv) == 0 && c.Infile == "" && c.Outfile == ""
}

// Pipeline is an ordered, non-empty sequence of commands where stage i's
// stdout feeds stage i+1's stdin, plus a background flag. An explicit
// Infile/Outfile on a stage overrides the pipe connection at that end.
type Pipeline struct {
	Commands   []Command
	Background bool
}

// Parse consumes lexed tokens into a pipeline in a single left-to-right
// pass. Redirection operators may appear anywhere within a stage without
// disturbing argv order.
func Parse(tokens []Token) (*Pipeline, error) {
	p := &Pipeline{}
	var cur Command

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Kind {
		case TokenPipe:
			if len(cur.Argv) == 0 {
				return nil, ErrEmptyStage
			}
			p.Commands = append(p.Commands, cur)
			cur = Command{}

		case TokenRedirectIn, TokenRedirectOut, TokenRedirectAppend:
			if i+1 >= len(tokens) || tokens[i+1].Kind != TokenWord {
				return nil, ErrMissingRedirectTarget
			}
			target := tokens[i+1].Text
			if tok.Kind == TokenRedirectIn {
				cur.Infile = target
			} else {
				cur.Outfile = target
				cur.Append = tok.Kind == TokenRedirectAppend
			}
			i++

		case TokenBackground:
			if i != len(tokens)-1 {
				return nil, ErrMisplacedBackground
			}
			p.Background = true

		default:
			cur.Argv = append(cur.Argv, tok.Text)
		}
	}

	if !cur.empty() {
		if len(cur.Argv) == 0 {
			// Redirections with no command to run.
			return nil, ErrEmptyStage
		}
		p.Commands = append(p.Commands, cur)
	}
	if len(p.Commands) == 0 {
		return nil, ErrEmptyPipeline
	}
	return p, nil
}

// ParseLine tokenizes and parses in one step.
func ParseLine(line string) (*Pipeline, error) {
	return Parse(Tokenize(line))
}
