package repl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionFlag(t *testing.T) {
	e := startEnv(t)

	code, out := e.exec(t, "scout", "--version")
	require.Zero(t, code)
	assert.Contains(t, out, "scout version test")
}

func TestScriptedSession(t *testing.T) {
	e := startEnv(t)

	script := strings.Join([]string{
		"scan /workspace/fixture",
		"ls",
		"cd models",
		"pwd",
		"cd ..",
		"search TODO",
		"findfiles *.go",
		"viewfile greeting.go",
		"extension go",
		"models",
		"scandir models",
		"autoscan",
		"pending",
		"quit",
	}, "\n") + "\n"

	out := e.runScript(t, script)

	// scan
	assert.Contains(t, out, "📂 Scanning codebase")
	assert.Contains(t, out, "✅ Analyzed 4 files out of 4 total files")
	assert.Contains(t, out, "📊 PROJECT SUMMARY")

	// navigation
	assert.Contains(t, out, "📂 DIRECTORY: .")
	assert.Contains(t, out, "📂 DIRECTORY: models")
	assert.Contains(t, out, "Relative to codebase root: models")
	assert.Contains(t, out, "📁 models/ (1 files, 0 subdirs)")

	// search and find
	assert.Contains(t, out, "🔍 SEARCH RESULTS: 1 matches in 1 files")
	assert.Contains(t, out, "📁 FILE LIST: 3 file(s) found")
	assert.Contains(t, out, "📄 FILE CONTENT: greeting.go")
	assert.Contains(t, out, "📊 FILE EXTENSION REPORT: Found 3 .go files")

	// model extraction
	assert.Contains(t, out, "🔍 MODELS ANALYSIS: 1 model file(s)")
	assert.Contains(t, out, "📊 User")
	assert.Contains(t, out, "- Posts: collection to Post")
	assert.Contains(t, out, "- table_name: users")

	// tree reports
	assert.Contains(t, out, "📂 NESTED SCAN: models")
	assert.Contains(t, out, "🔍 AUTO-SCAN NESTED DIRECTORIES")

	// proposals and exit
	assert.Contains(t, out, "🕒 PENDING CHANGES (0)")
	assert.Contains(t, out, "Goodbye")
}

func TestCommandErrorsKeepSessionAlive(t *testing.T) {
	e := startEnv(t)

	script := strings.Join([]string{
		"ls",
		"scan /does/not/exist",
		"scan /workspace/fixture",
		"cd nowhere",
		"pwd",
		"quit",
	}, "\n") + "\n"

	out := e.runScript(t, script)

	assert.Contains(t, out, "no codebase scanned")
	assert.Contains(t, out, "❌ Error:")
	assert.Contains(t, out, "✅ Analyzed", "scan works after a failed command")
	assert.Contains(t, out, "Current directory: /workspace/fixture")
	assert.Contains(t, out, "Goodbye")
}

func TestLLMCommandsDegradeWithoutKey(t *testing.T) {
	e := startEnv(t)

	script := strings.Join([]string{
		"scan /workspace/fixture",
		"analyze greeting.go",
		"what is this project",
		"quit",
	}, "\n") + "\n"

	out := e.runScript(t, script)

	// The scan itself succeeds; summary generation records its failure.
	assert.Contains(t, out, "✅ Analyzed")
	assert.Contains(t, out, "Error generating project summary.")

	// Direct LLM commands surface the provider error and the loop
	// keeps going.
	assert.Contains(t, out, "no API key configured")
	assert.Contains(t, out, "🤖 Assistant: ")
	assert.Contains(t, out, "Goodbye")
}
