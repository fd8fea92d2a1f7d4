package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	calls []string
	err   error
}

func (f *fakeExec) Download(_ context.Context, names []string) error {
	f.calls = append(f.calls, "download "+strings.Join(names, ","))
	return f.err
}

func (f *fakeExec) Status(_ context.Context, names []string) error {
	f.calls = append(f.calls, "status "+strings.Join(names, ","))
	return nil
}

func (f *fakeExec) Backends(context.Context) error {
	f.calls = append(f.calls, "backends")
	return nil
}

func (f *fakeExec) Version(context.Context) error {
	f.calls = append(f.calls, "version")
	return nil
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	lines := capturePrintln(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"",
		"download a b",
		"d",
		"status",
		"s a",
		"backends",
		"version",
		"foobar",
		"exit",
		"download never",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, bufio.NewScanner(input))

	assert.Equal(t, []string{
		"download a,b",
		"download ",
		"status ",
		"status a",
		"backends",
		"version",
	}, exec.calls)
	assert.Contains(t, *lines, helpText)
	assert.Contains(t, *lines, "Error: unknown command: foobar")
	assert.Equal(t, "Bye!", (*lines)[len(*lines)-1])
}

func TestRunREPL_CommandErrorKeepsLooping(t *testing.T) {
	lines := capturePrintln(t)

	exec := &fakeExec{err: errors.New("boom")}
	runREPL(context.Background(), exec, bufio.NewScanner(strings.NewReader("download\nversion\n")))

	assert.Equal(t, []string{"download ", "version"}, exec.calls)
	assert.Contains(t, *lines, "Error: boom")
}

func TestRunREPL_StopsWhenContextDone(t *testing.T) {
	capturePrintln(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, bufio.NewScanner(strings.NewReader("version\n")))
	assert.Empty(t, exec.calls)
}

func TestDispatch_Quit(t *testing.T) {
	for _, cmd := range []string{"exit", "quit"} {
		quit, err := dispatch(context.Background(), &fakeExec{}, cmd, nil)
		assert.NoError(t, err)
		assert.True(t, quit, cmd)
	}
}
