// Package ui renders assistant output for the terminal with lipgloss.
// Renderers return strings; the REPL decides where they go.
package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))            // cyan
	textStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))            // white
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))            // yellow
	dirStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))            // blue
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))            // green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))            // red
	faintStyle   = lipgloss.NewStyle().Faint(true)
	matchStyle   = lipgloss.NewStyle().Background(lipgloss.Color("1"))
	promptStyle  = lipgloss.NewStyle().Bold(true)
)

// Header renders a section title inside a box frame.
func Header(text string) string {
	width := utf8.RuneCountInString(text) + 4
	top := "┌" + strings.Repeat("─", width) + "┐"
	mid := "│  " + text + "  │"
	bottom := "└" + strings.Repeat("─", width) + "┘"
	return headerStyle.Render(top) + "\n" + headerStyle.Render(mid) + "\n" + headerStyle.Render(bottom)
}

// Info renders a cyan status line.
func Info(format string, a ...interface{}) string {
	return infoStyle.Render(fmt.Sprintf(format, a...))
}

// Text renders a plain body line.
func Text(format string, a ...interface{}) string {
	return textStyle.Render(fmt.Sprintf(format, a...))
}

// Success renders a green confirmation line.
func Success(format string, a ...interface{}) string {
	return successStyle.Render(fmt.Sprintf(format, a...))
}

// Warn renders a yellow emphasis line.
func Warn(format string, a ...interface{}) string {
	return warnStyle.Render(fmt.Sprintf(format, a...))
}

// Hint renders a faint usage hint.
func Hint(format string, a ...interface{}) string {
	return faintStyle.Render(fmt.Sprintf(format, a...))
}

// Error renders a command failure.
func Error(err error) string {
	return errorStyle.Render(fmt.Sprintf("❌ Error: %v", err))
}

// Prompt renders the input prompt: the cursor location once a codebase
// is loaded, a bare marker before that.
func Prompt(rel string, scanned bool) string {
	if !scanned {
		return promptStyle.Render("Command > ")
	}
	if rel == "" {
		rel = "/"
	}
	return promptStyle.Render(fmt.Sprintf("[%s] > ", rel))
}

// Welcome renders the startup banner.
func Welcome() string {
	return infoStyle.Render("\n🤖 Welcome to scout!") + "\n" +
		textStyle.Render("Analyze, navigate, and modify your codebase from one prompt") + "\n"
}

// Goodbye renders the exit message.
func Goodbye() string {
	return infoStyle.Render("\nThank you for using scout! Goodbye! 👋")
}

var helpCommands = [][2]string{
	{"scan <path>", "Scan and analyze a codebase directory"},
	{"summary", "Display project summary"},
	{"ls", "List files and directories in current location"},
	{"cd <directory>", "Change to specified directory"},
	{"pwd", "Show current directory path"},
	{"analyze <file_path>", "Analyze a specific file"},
	{"autoanalyze", "Automatically analyze important files"},
	{"search <query>", "Search for a pattern in the codebase"},
	{"context <query> <num>", "Search with context lines (e.g., 'context TODO 3')"},
	{"findfiles <pattern>", "Find files matching a pattern (e.g., '*.py')"},
	{"findhere <pattern>", "Find files in current directory (e.g., 'findhere *.py')"},
	{"viewfile <file_path>", "View the contents of a specific file"},
	{"models", "Analyze all model files in the codebase"},
	{"suggest <feature>", "Suggest implementation for a new feature"},
	{"pending", "List all pending changes"},
	{"details <change_id>", "Show details of a specific change"},
	{"approve <change_id>", "Approve and apply pending changes"},
	{"reject <change_id>", "Reject and discard pending changes"},
	{"scandir <dir>", "Scan all files in a directory and its subdirectories"},
	{"extension <ext>", "Find all files with a specific extension"},
	{"autoscan", "Automatically scan and analyze all nested directories"},
	{"help", "Display this help information"},
	{"quit", "Exit the application"},
}

// Help renders the command reference.
func Help() string {
	var b strings.Builder
	b.WriteString(Header("🤖 SCOUT COMMANDS"))
	b.WriteString("\n")
	for _, cmd := range helpCommands {
		b.WriteString(infoStyle.Render(fmt.Sprintf("  %-25s", cmd[0])))
		b.WriteString(textStyle.Render(cmd[1]))
		b.WriteString("\n")
	}
	return b.String()
}
