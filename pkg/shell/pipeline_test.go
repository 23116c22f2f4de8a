package shell

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPipelineParser_Parse(t *testing.T) {
	parser := NewDefaultPipelineParser()

	t.Run("single stage no redirection", func(t *testing.T) {
		toks := []Token{{Word, "echo"}, {Word, "hello"}}
		pl, err := parser.Parse(toks)
		require.NoError(t, err)
		require.Len(t, pl.Stages, 1)
		require.Equal(t, []string{"echo", "hello"}, pl.Stages[0].Argv)
		require.Empty(t, pl.Stages[0].Redirection)
	})

	t.Run("redirection extracted from argv", func(t *testing.T) {
		toks := []Token{
			{Word, "ls"}, {Word, "-l"},
			{Operator, ">"}, {Word, "out.txt"},
			{Operator, "2>>"}, {Word, "err.txt"},
		}
		pl, err := parser.Parse(toks)
		require.NoError(t, err)
		require.Len(t, pl.Stages, 1)
		stage := pl.Stages[0]
		require.Equal(t, []string{"ls", "-l"}, stage.Argv)
		require.Equal(t, Redirection{FD: FDStdout, Path: "out.txt", Append: false}, stage.Redirection[FDStdout])
		require.Equal(t, Redirection{FD: FDStderr, Path: "err.txt", Append: true}, stage.Redirection[FDStderr])
	})

	t.Run("later redirection on same fd wins", func(t *testing.T) {
		toks := []Token{
			{Word, "cmd"},
			{Operator, ">"}, {Word, "a.txt"},
			{Operator, ">>"}, {Word, "b.txt"},
		}
		pl, err := parser.Parse(toks)
		require.NoError(t, err)
		require.Equal(t, Redirection{FD: FDStdout, Path: "b.txt", Append: true}, pl.Stages[0].Redirection[FDStdout])
	})

	t.Run("pipeline splits on pipe operator", func(t *testing.T) {
		toks := []Token{
			{Word, "echo"}, {Word, "hello"},
			{Operator, "|"},
			{Word, "wc"}, {Word, "-c"},
		}
		pl, err := parser.Parse(toks)
		require.NoError(t, err)
		require.Len(t, pl.Stages, 2)
		require.Equal(t, []string{"echo", "hello"}, pl.Stages[0].Argv)
		require.Equal(t, []string{"wc", "-c"}, pl.Stages[1].Argv)
	})

	t.Run("redirection operator at end of stage fails", func(t *testing.T) {
		toks := []Token{{Word, "echo"}, {Word, "test"}, {Operator, ">"}}
		_, err := parser.Parse(toks)
		require.ErrorIs(t, err, ErrRedirectionMissingTarget)
	})

	t.Run("redirection operator followed by operator fails", func(t *testing.T) {
		toks := []Token{{Word, "echo"}, {Operator, ">"}, {Operator, "|"}, {Word, "wc"}}
		_, err := parser.Parse(toks)
		require.ErrorIs(t, err, ErrRedirectionMissingTarget)
	})

	t.Run("empty stage between pipes fails", func(t *testing.T) {
		toks := []Token{{Word, "echo"}, {Word, "hi"}, {Operator, "|"}, {Operator, "|"}, {Word, "wc"}}
		_, err := parser.Parse(toks)
		require.ErrorIs(t, err, ErrEmptyPipelineStage)
	})
}
