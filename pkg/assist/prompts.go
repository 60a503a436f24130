package assist

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/ternarybob/scout/pkg/catalog"
)

// System messages for each kind of completion.
const (
	summarySystem = "You are a code analysis assistant tasked with understanding and summarizing codebases. Be concise but thorough."
	analyzeSystem = "You are a code analysis assistant tasked with understanding and explaining code files. Be thorough but concise."
	chatSystem    = "You are a code assistant with deep knowledge of the scanned codebase. Provide specific, contextual answers. If asked about specific files, you have detailed information available."
	suggestSystem = "You are a code implementation assistant tasked with suggesting how to implement new features in an existing codebase. Be specific and practical."
)

// Clipping limits keep prompts bounded on large trees.
const (
	readmeClip  = 2000
	summaryClip = 500
	analyzeClip = 10000
	suggestClip = 2000
)

// Files whose presence says something about what kind of project this
// is. Reported in the summary prompt by full relative path.
var configFileNames = map[string]bool{
	"readme.md":          true,
	"package.json":       true,
	"setup.py":           true,
	"requirements.txt":   true,
	"pom.xml":            true,
	"build.gradle":       true,
	"cargo.toml":         true,
	"go.mod":             true,
	"dockerfile":         true,
	"docker-compose.yml": true,
	"makefile":           true,
}

func buildSummaryPrompt(cat *catalog.Catalog) string {
	contents := cat.AllContents()

	totalLines := 0
	langs := make(map[string]bool)
	for _, rec := range contents {
		totalLines += rec.Lines
		langs[rec.Language] = true
	}

	importantLine := "None"
	if important := configFilePaths(contents); len(important) > 0 {
		importantLine = strings.Join(important, ", ")
	}

	return fmt.Sprintf(`Analyze this codebase information and provide a comprehensive summary:

1. Project Statistics:
   - Total files: %d
   - Analyzed files: %d
   - Total lines of code (in analyzed files): %d
   - File types: %s
   - Directory depth: Up to %d levels of nesting
   - Important configuration files found: %s

2. README content (if available):
%s

Based on this information, provide:
1. A concise summary of what this project appears to be about
2. The likely main purpose and functionality
3. The technologies and frameworks used
4. The project's architecture at a high level
5. Notable observations about the directory structure and organization

Keep the response under 500 words and focus on being accurate based on the provided information.`,
		cat.FileCount(),
		cat.ContentCount(),
		totalLines,
		strings.Join(sortedSet(langs), ", "),
		cat.MaxDepth(),
		importantLine,
		clip(readmeContent(contents), readmeClip),
	)
}

func buildAnalyzePrompt(rec *catalog.ContentRecord) string {
	return fmt.Sprintf(`Analyze this file and provide a detailed explanation:

File: %s
Language: %s
Size: %d bytes
Lines: %d

Content:
`+"```%s\n%s\n```"+`

Please provide:
1. A summary of what this file does and its purpose in the project
2. Key functions, classes, or components and their roles
3. Any dependencies or imports and what they're used for
4. Notable design patterns or architectural choices
5. Potential issues, improvements, or optimizations

Keep the response under 500 words and focus on being accurate and insightful.`,
		rec.Path, rec.Language, rec.Size, rec.Lines,
		rec.Language, clip(rec.Content, analyzeClip))
}

func buildChatPrompt(cat *catalog.Catalog, currentRel, summary, input string) string {
	contents := cat.AllContents()
	totalLines := 0
	langs := make(map[string]bool)
	for _, rec := range contents {
		totalLines += rec.Lines
		langs[rec.Language] = true
	}

	current := currentRel
	if current == "" {
		current = "/"
	}

	var info strings.Builder
	fmt.Fprintf(&info, "\nProject Summary: %s...\n\n", head(summary, summaryClip))
	fmt.Fprintf(&info, "Total files: %d\n", cat.FileCount())
	fmt.Fprintf(&info, "Analyzed files: %d files\n", cat.ContentCount())
	fmt.Fprintf(&info, "File types: %s\n", strings.Join(sortedSet(langs), ", "))
	fmt.Fprintf(&info, "Total lines of code (in analyzed files): %d\n", totalLines)
	fmt.Fprintf(&info, "Directory depth: Up to %d levels of nesting\n", cat.MaxDepth())
	fmt.Fprintf(&info, "Current directory: %s\n", current)

	var keyFiles strings.Builder
	for _, rec := range topByLines(cat, 10) {
		fmt.Fprintf(&keyFiles, "- %s (%d lines, %s)\n", rec.Path, rec.Lines, rec.Language)
	}

	return fmt.Sprintf(`As a code assistant with access to the following codebase:

%s

Key files:
%s

User question: %s

Please provide a detailed response based on the codebase context. If you need information about a specific file that isn't mentioned here, say so.`,
		info.String(), keyFiles.String(), input)
}

func buildSuggestPrompt(feature, summary string, records []*catalog.ContentRecord) string {
	var files strings.Builder
	for _, rec := range records {
		fmt.Fprintf(&files, "\nFile: %s\n", rec.Path)
		files.WriteString("```" + rec.Language + "\n")
		files.WriteString(clip(rec.Content, suggestClip))
		files.WriteString("\n```\n")
	}

	return fmt.Sprintf(`Based on the current codebase, suggest how to implement this new feature:

Feature description: %s

Project summary: %s

Here are some key files from the codebase for context:
%s

Please provide:
1. Overall approach for implementing this feature
2. Files that need to be modified or created
3. Specific code changes with implementation details
4. Any potential challenges or considerations

Be specific and provide actual code snippets where appropriate.`,
		feature, head(summary, summaryClip), files.String())
}

// configFilePaths lists recognized project-defining files, shallowest
// first.
func configFilePaths(recs []*catalog.ContentRecord) []string {
	var out []string
	for _, rec := range recs {
		if configFileNames[strings.ToLower(path.Base(rec.Path))] {
			out = append(out, rec.Path)
		}
	}
	sort.Slice(out, func(i, j int) bool { return shallower(out[i], out[j]) })
	return out
}

// readmeContent returns the text of the shallowest README, or "".
func readmeContent(recs []*catalog.ContentRecord) string {
	var best *catalog.ContentRecord
	for _, rec := range recs {
		if strings.ToLower(path.Base(rec.Path)) != "readme.md" {
			continue
		}
		if best == nil || shallower(rec.Path, best.Path) {
			best = rec
		}
	}
	if best == nil {
		return ""
	}
	return best.Content
}

func shallower(a, b string) bool {
	da, db := strings.Count(a, "/"), strings.Count(b, "/")
	if da != db {
		return da < db
	}
	return a < b
}

// clip truncates s, marking the cut with an ellipsis.
func clip(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

// head truncates without a marker.
func head(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func sortedSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
