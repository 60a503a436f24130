package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/scout/internal/config"
	"github.com/ternarybob/scout/pkg/assist"
	"github.com/ternarybob/scout/pkg/catalog"
)

// stubCompleter answers every LLM call with a canned response.
type stubCompleter struct {
	resp  string
	calls int
}

func (s *stubCompleter) Complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	s.calls++
	if s.resp == "" {
		return "stub response", nil
	}
	return s.resp, nil
}

func newTestREPL(t *testing.T, completer *stubCompleter) (*repl, *bytes.Buffer) {
	t.Helper()
	session := assist.New(assist.Options{
		Completer:      completer,
		DisableVectors: true,
	})
	out := &bytes.Buffer{}
	return newREPL(session, strings.NewReader(""), out), out
}

func writeFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"main.go":        "package main\n\nfunc main() {}\n",
		"util/helper.go": "package util\n\n// TODO fix\nfunc Help() {}\n",
		"README.md":      "# Fixture\n",
	}
	for path, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0644))
	}
	return root
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		input   string
		cmd     string
		arg     string
	}{
		{input: "ls", cmd: "ls", arg: ""},
		{input: "cd util", cmd: "cd", arg: "util"},
		{input: "SEARCH Todo Items", cmd: "search", arg: "Todo Items"},
		{input: "scan   /tmp/x", cmd: "scan", arg: "/tmp/x"},
	}

	for _, tt := range tests {
		cmd, arg := splitCommand(tt.input)
		assert.Equal(t, tt.cmd, cmd, tt.input)
		assert.Equal(t, tt.arg, arg, tt.input)
	}
}

func TestDispatch_UsageErrors(t *testing.T) {
	r, _ := newTestREPL(t, &stubCompleter{})
	ctx := context.Background()

	inputs := []string{
		"scan", "cd", "analyze", "search", "findfiles", "findhere",
		"viewfile", "extension", "scandir", "suggest", "details",
		"approve", "reject", "context", "context onearg",
	}
	for _, input := range inputs {
		err := r.dispatch(ctx, input)
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve, input)
	}

	err := r.dispatch(ctx, "context query notanumber")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Msg, "must be a number")
}

func TestDispatch_RequiresScan(t *testing.T) {
	r, _ := newTestREPL(t, &stubCompleter{})
	ctx := context.Background()

	for _, input := range []string{"ls", "pwd", "search x", "models", "autoscan", "findfiles *.go"} {
		err := r.dispatch(ctx, input)
		assert.ErrorIs(t, err, catalog.ErrNotScanned, input)
	}
}

func TestREPL_Script(t *testing.T) {
	root := writeFixture(t)
	completer := &stubCompleter{}
	session := assist.New(assist.Options{
		Completer:      completer,
		DisableVectors: true,
	})

	script := fmt.Sprintf(
		"scan %s\nls\ncd util\npwd\nsearch TODO\nfindfiles *.go\nviewfile helper.go\nextension go\nscandir .\nautoscan\nquit\n",
		root,
	)
	out := &bytes.Buffer{}
	r := newREPL(session, strings.NewReader(script), out)
	r.Run()

	text := out.String()
	assert.Contains(t, text, "📂 Scanning codebase")
	assert.Contains(t, text, "✅ Analyzed 3 files out of 3 total files")
	assert.Contains(t, text, "📊 PROJECT SUMMARY")
	assert.Contains(t, text, "📂 DIRECTORY: .")
	assert.Contains(t, text, "📂 DIRECTORY: util")
	assert.Contains(t, text, "Relative to codebase root: util")
	assert.Contains(t, text, "🔍 SEARCH RESULTS: 1 matches in 1 files")
	assert.Contains(t, text, "📁 FILE LIST: 2 file(s) found")
	assert.Contains(t, text, "📄 FILE CONTENT: util/helper.go")
	assert.Contains(t, text, "📊 FILE EXTENSION REPORT: Found 2 .go files")
	assert.Contains(t, text, "📂 NESTED SCAN: util")
	assert.Contains(t, text, "🔍 AUTO-SCAN NESTED DIRECTORIES")
	assert.Contains(t, text, "Goodbye")
	assert.Equal(t, 1, completer.calls, "only the project summary needs the LLM")
}

func TestREPL_ErrorContinues(t *testing.T) {
	root := writeFixture(t)
	session := assist.New(assist.Options{
		Completer:      &stubCompleter{},
		DisableVectors: true,
	})

	script := fmt.Sprintf("scan %s\ncd nowhere\npwd\nquit\n", root)
	out := &bytes.Buffer{}
	r := newREPL(session, strings.NewReader(script), out)
	r.Run()

	text := out.String()
	assert.Contains(t, text, "❌ Error:")
	assert.Contains(t, text, "Current directory:", "loop continues past a failed command")
}

func TestREPL_SuggestApproveFlow(t *testing.T) {
	root := writeFixture(t)
	t.Setenv("TMPDIR", t.TempDir())

	suggestion := "Add a greeting file.\n\nCreate file: hello.txt\n```\nhello world\n```\n"
	session := assist.New(assist.Options{
		Completer:      &stubCompleter{resp: suggestion},
		DisableVectors: true,
	})

	out := &bytes.Buffer{}
	r := newREPL(session, strings.NewReader(""), out)
	ctx := context.Background()

	require.NoError(t, r.dispatch(ctx, "scan "+root))
	require.NoError(t, r.dispatch(ctx, "suggest add greeting"))
	assert.Contains(t, out.String(), "💡 FEATURE IMPLEMENTATION SUGGESTION")
	assert.Contains(t, out.String(), "Files to create: 1")

	pending := session.Proposals().List()
	require.Len(t, pending, 1)
	id := pending[0].ID

	require.NoError(t, r.dispatch(ctx, "pending"))
	assert.Contains(t, out.String(), "🕒 PENDING CHANGES (1)")

	require.NoError(t, r.dispatch(ctx, "details "+id))
	assert.Contains(t, out.String(), "+++ hello.txt +++")

	require.NoError(t, r.dispatch(ctx, "approve "+id))
	assert.Contains(t, out.String(), "✅ CHANGES APPLIED SUCCESSFULLY")

	created, err := os.ReadFile(filepath.Join(root, "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(created))
	assert.Zero(t, session.Proposals().Len(), "approved proposal leaves the queue")
}

func TestREPL_RejectFlow(t *testing.T) {
	root := writeFixture(t)
	suggestion := "Create file: unwanted.txt\n```\nnope\n```\n"
	session := assist.New(assist.Options{
		Completer:      &stubCompleter{resp: suggestion},
		DisableVectors: true,
	})

	out := &bytes.Buffer{}
	r := newREPL(session, strings.NewReader(""), out)
	ctx := context.Background()

	require.NoError(t, r.dispatch(ctx, "scan "+root))
	require.NoError(t, r.dispatch(ctx, "suggest drop this"))

	id := session.Proposals().List()[0].ID
	require.NoError(t, r.dispatch(ctx, "reject "+id))

	assert.Contains(t, out.String(), "has been rejected and removed")
	assert.Zero(t, session.Proposals().Len())
	assert.NoFileExists(t, filepath.Join(root, "unwanted.txt"))
}

func TestREPL_ChatFallback(t *testing.T) {
	root := writeFixture(t)
	completer := &stubCompleter{resp: "It is a tiny Go program."}
	session := assist.New(assist.Options{
		Completer:      completer,
		DisableVectors: true,
	})

	out := &bytes.Buffer{}
	r := newREPL(session, strings.NewReader(""), out)
	ctx := context.Background()

	require.NoError(t, r.dispatch(ctx, "scan "+root))
	require.NoError(t, r.dispatch(ctx, "what does this project do"))

	assert.Contains(t, out.String(), "🤖 Assistant: ")
	assert.Contains(t, out.String(), "It is a tiny Go program.")
}

func TestBuildCompleter(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.NotNil(t, buildCompleter(cfg))

	cfg.LLM.Provider = "ollama"
	assert.NotNil(t, buildCompleter(cfg))
}
