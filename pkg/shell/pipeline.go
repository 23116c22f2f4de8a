package shell

import "errors"

// FD identifies which standard stream a Redirection targets.
type FD int

const (
	FDStdout FD = iota
	FDStderr
)

// Redirection is a (fd, path, mode) triple attached to a single Stage.
type Redirection struct {
	FD     FD
	Path   string
	Append bool
}

// Stage is one segment of a pipeline: an argument vector plus the
// redirections that apply only to it.
type Stage struct {
	Argv        []string
	Redirection map[FD]Redirection
}

// Name returns the stage's command name, the first element of Argv.
func (s Stage) Name() string {
	return s.Argv[0]
}

// Args returns the stage's arguments excluding the command name.
func (s Stage) Args() []string {
	if len(s.Argv) <= 1 {
		return nil
	}
	return s.Argv[1:]
}

// Pipeline is an ordered, non-empty sequence of Stages.
type Pipeline struct {
	Stages []Stage
}

// ErrRedirectionMissingTarget is returned when a redirection operator is not
// followed by an ordinary-word token.
var ErrRedirectionMissingTarget = errors.New("redirection missing target")

// ErrEmptyPipelineStage is returned when a stage has no argument vector,
// e.g. two adjacent pipe operators or a leading/trailing one.
var ErrEmptyPipelineStage = errors.New("empty pipeline stage")

var redirectOperators = map[string]Redirection{
	">":   {FD: FDStdout, Append: false},
	"1>":  {FD: FDStdout, Append: false},
	">>":  {FD: FDStdout, Append: true},
	"1>>": {FD: FDStdout, Append: true},
	"2>":  {FD: FDStderr, Append: false},
	"2>>": {FD: FDStderr, Append: true},
}

// PipelineParser turns a token sequence into a Pipeline.
type PipelineParser interface {
	Parse(tokens []Token) (*Pipeline, error)
}

// DefaultPipelineParser implements PipelineParser.
type DefaultPipelineParser struct{}

// NewDefaultPipelineParser returns a ready-to-use DefaultPipelineParser.
func NewDefaultPipelineParser() *DefaultPipelineParser {
	return &DefaultPipelineParser{}
}

// Parse splits tokens at every "|" operator token, then within each stage
// consumes ordinary words into the argv and redirection-operator/target
// pairs into the stage's Redirection set. The later of two redirections
// targeting the same fd wins.
func (p *DefaultPipelineParser) Parse(tokens []Token) (*Pipeline, error) {
	var stageTokens [][]Token
	var current []Token

	for _, tok := range tokens {
		if tok.isOperator("|") {
			stageTokens = append(stageTokens, current)
			current = nil
			continue
		}
		current = append(current, tok)
	}
	stageTokens = append(stageTokens, current)

	stages := make([]Stage, 0, len(stageTokens))

	for _, toks := range stageTokens {
		stage := Stage{Redirection: make(map[FD]Redirection)}

		for i := 0; i < len(toks); i++ {
			tok := toks[i]

			if tok.Kind == Operator {
				redirect, ok := redirectOperators[tok.Value]
				if !ok {
					return nil, ErrRedirectionMissingTarget
				}

				if i+1 >= len(toks) || toks[i+1].Kind != Word {
					return nil, ErrRedirectionMissingTarget
				}

				redirect.Path = toks[i+1].Value
				stage.Redirection[redirect.FD] = redirect
				i++
				continue
			}

			stage.Argv = append(stage.Argv, tok.Value)
		}

		if len(stage.Argv) == 0 {
			return nil, ErrEmptyPipelineStage
		}

		stages = append(stages, stage)
	}

	return &Pipeline{Stages: stages}, nil
}
