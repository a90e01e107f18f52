package shell

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// scriptReader replays fixed lines, then returns end.
type scriptReader struct {
	lines   []string
	end     error
	prompts int
	history []string
}

func (r *scriptReader) Prompt(string) (string, error) {
	r.prompts++
	if len(r.lines) == 0 {
		return "", r.end
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptReader) AppendHistory(item string) {
	r.history = append(r.history, item)
}

func TestRunDispatchesLines(t *testing.T) {
	reader := &scriptReader{
		lines: []string{
			`inspect --name "2101 Adonis"`,
			"",
			"   ",
			"query --limit 5",
		},
		end: io.EOF,
	}
	var calls [][]string
	exec := func(args []string) error {
		calls = append(calls, args)
		return nil
	}
	var out bytes.Buffer

	err := New(reader, &out, exec, "Explore close approaches.", testLogger).Run()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"inspect", "--name", "2101 Adonis"},
		{"query", "--limit", "5"},
	}, calls)
	assert.Equal(t, []string{`inspect --name "2101 Adonis"`, "query --limit 5"}, reader.history)
	assert.Contains(t, out.String(), "Explore close approaches.")
}

func TestRunStopsOnQuit(t *testing.T) {
	for _, word := range []string{"quit", "exit", "q"} {
		t.Run(word, func(t *testing.T) {
			reader := &scriptReader{lines: []string{word, "query"}, end: io.EOF}
			called := false
			exec := func([]string) error { called = true; return nil }

			require.NoError(t, New(reader, io.Discard, exec, "", testLogger).Run())
			assert.False(t, called)
			assert.Equal(t, 1, reader.prompts)
		})
	}
}

func TestRunStopsOnAbort(t *testing.T) {
	reader := &scriptReader{end: liner.ErrPromptAborted}
	require.NoError(t, New(reader, io.Discard, func([]string) error { return nil }, "", testLogger).Run())
}

func TestRunReportsErrorsAndContinues(t *testing.T) {
	reader := &scriptReader{lines: []string{"bogus", `query --name "unterminated`, "query"}, end: io.EOF}
	var calls int
	exec := func(args []string) error {
		calls++
		if args[0] == "bogus" {
			return errors.New(`unknown command "bogus"`)
		}
		return nil
	}
	var out bytes.Buffer

	require.NoError(t, New(reader, &out, exec, "", testLogger).Run())
	assert.Equal(t, 2, calls)
	assert.Contains(t, out.String(), `Error: unknown command "bogus"`)
	assert.Contains(t, out.String(), "Could not parse")
}

func TestRunReadError(t *testing.T) {
	boom := errors.New("terminal gone")
	reader := &scriptReader{end: boom}
	err := New(reader, io.Discard, func([]string) error { return nil }, "", testLogger).Run()
	assert.ErrorIs(t, err, boom)
}
