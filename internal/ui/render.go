package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ternarybob/scout/pkg/assist"
	"github.com/ternarybob/scout/pkg/assist/schema"
	"github.com/ternarybob/scout/pkg/catalog"
	"github.com/ternarybob/scout/pkg/proposal"
	"github.com/ternarybob/scout/pkg/query"
)

// Display caps. Results hold more; the terminal shows this much.
const (
	maxShownMatches    = 5
	maxShownExtensions = 20
	maxShownPerLevel   = 5
	createPreviewChars = 500
)

func kb(size int64) string {
	return fmt.Sprintf("%.1f KB", float64(size)/1024)
}

// ScanResult renders the outcome lines of a codebase scan.
func ScanResult(sum *catalog.Summary) string {
	var b strings.Builder
	b.WriteString(successStyle.Render(fmt.Sprintf("✅ Analyzed %d files out of %d total files", sum.FilesAnalyzed, sum.TotalFiles)))
	b.WriteString("\n")
	b.WriteString(successStyle.Render(fmt.Sprintf("📊 Found %d different file extensions", len(sum.Extensions))))
	b.WriteString("\n")
	b.WriteString(successStyle.Render(fmt.Sprintf("📂 Maximum directory nesting depth: %d levels", sum.MaxDepth)))
	return b.String()
}

// ProjectSummary renders the project summary section.
func ProjectSummary(text string) string {
	return Header("📊 PROJECT SUMMARY") + "\n" + textStyle.Render(text)
}

// FileAnalysis renders a single file analysis.
func FileAnalysis(path, analysis string) string {
	return Header("📄 FILE ANALYSIS: "+path) + "\n" + textStyle.Render(analysis)
}

// DirectoryListing renders the contents of the cursor's directory.
func DirectoryListing(l *catalog.Listing) string {
	rel := l.Rel
	if rel == "/" {
		rel = "."
	}

	var b strings.Builder
	b.WriteString(Header("📂 DIRECTORY: " + rel))
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("Full path: " + l.AbsPath))
	b.WriteString("\n")
	b.WriteString(faintStyle.Render(fmt.Sprintf("%d directories, %d files", len(l.Dirs), len(l.Files))))
	b.WriteString("\n\n")

	if !l.AtRoot {
		b.WriteString(dirStyle.Render("📁 .. (Parent Directory)"))
		b.WriteString("\n")
	}
	for _, dir := range l.Dirs {
		b.WriteString(dirStyle.Render(fmt.Sprintf("📁 %s/ (%d files, %d subdirs)", dir.Name, dir.ContainsFiles, dir.ContainsDirs)))
		b.WriteString("\n")
	}
	for _, file := range l.Files {
		b.WriteString(textStyle.Render(fmt.Sprintf("📄 %s (%s)", file.Name, kb(file.Size))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(faintStyle.Render("Use 'cd <directory>' to navigate, 'viewfile <filename>' to view file contents."))
	return b.String()
}

// SearchReport renders search results with the matched text
// highlighted in place.
func SearchReport(r *query.SearchResults) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("🔍 SEARCH RESULTS: %d matches in %d files (scope: %s)", r.TotalMatches, r.FilesWithMatches, r.Scope)))
	b.WriteString("\n")

	for _, file := range r.Files {
		b.WriteString(warnStyle.Render(fmt.Sprintf("\n📄 %s (%d matches)", file.Path, file.MatchCount)))
		b.WriteString("\n")

		shown := len(file.Matches)
		if shown > maxShownMatches {
			shown = maxShownMatches
		}
		for i := 0; i < shown; i++ {
			match := file.Matches[i]
			for _, ctx := range match.Before {
				b.WriteString(faintStyle.Render(fmt.Sprintf("   Line %d: %s", ctx.Number, ctx.Text)))
				b.WriteString("\n")
			}

			highlighted := match.Line[:match.Start] +
				matchStyle.Render(match.Line[match.Start:match.End]) +
				match.Line[match.End:]
			b.WriteString(textStyle.Render(fmt.Sprintf("   Line %d: ", match.LineNumber)))
			b.WriteString(highlighted)
			b.WriteString("\n")

			for _, ctx := range match.After {
				b.WriteString(faintStyle.Render(fmt.Sprintf("   Line %d: %s", ctx.Number, ctx.Text)))
				b.WriteString("\n")
			}
			if i < shown-1 {
				b.WriteString(faintStyle.Render("   -----------"))
				b.WriteString("\n")
			}
		}
		if file.MatchCount > maxShownMatches {
			b.WriteString(faintStyle.Render(fmt.Sprintf("   ... and %d more matches", file.MatchCount-maxShownMatches)))
			b.WriteString("\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// FileList renders the outcome of a file find.
func FileList(r *query.FileResults) string {
	recursive := "including subdirectories"
	if !r.Recursive {
		recursive = "current directory only"
	}

	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("📁 FILE LIST: %d file(s) found (scope: %s, %s)", r.Count, r.Scope, recursive)))
	b.WriteString("\n")
	for _, hit := range r.Hits {
		b.WriteString(textStyle.Render(fmt.Sprintf("  %s (%s, %s)", hit.Path, kb(hit.Size), hit.Extension)))
		b.WriteString("\n")
	}
	if r.Truncated {
		b.WriteString("\n")
		b.WriteString(faintStyle.Render("Note: Not all matching files are shown. Refine your search criteria for more specific results."))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// ExtensionReport renders the largest files carrying one extension.
func ExtensionReport(ext string, matches []query.ExtensionMatch) string {
	sorted := make([]query.ExtensionMatch, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Size > sorted[j].Size })

	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("📊 FILE EXTENSION REPORT: Found %d .%s files", len(matches), ext)))
	b.WriteString("\n")

	shown := len(sorted)
	if shown > maxShownExtensions {
		shown = maxShownExtensions
	}
	for _, m := range sorted[:shown] {
		b.WriteString(textStyle.Render(fmt.Sprintf("  %s (%s)", m.Path, kb(m.Size))))
		b.WriteString("\n")
	}
	if len(matches) > maxShownExtensions {
		b.WriteString("\n")
		b.WriteString(faintStyle.Render(fmt.Sprintf("  ... and %d more .%s files", len(matches)-maxShownExtensions, ext)))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// SubtreeReport renders the files and directories found under one
// directory, grouped by nesting level.
func SubtreeReport(st *query.SubtreeStats) string {
	var b strings.Builder
	b.WriteString(Header("📂 NESTED SCAN: " + st.Target))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Found %d files in %d directories", st.FileCount, st.DirectoryCount)))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Maximum nesting depth: %d levels", st.MaxDepth)))
	b.WriteString("\n\n")
	b.WriteString(warnStyle.Render("🔹 Directories:"))
	b.WriteString("\n")

	byDepth := make(map[int][]string)
	for _, dir := range st.Directories {
		depth := strings.Count(dir, "/")
		byDepth[depth] = append(byDepth[depth], dir)
	}
	depths := make([]int, 0, len(byDepth))
	for depth := range byDepth {
		depths = append(depths, depth)
	}
	sort.Ints(depths)

	for _, depth := range depths {
		b.WriteString(infoStyle.Render(fmt.Sprintf("\n  Level %d:", depth)))
		b.WriteString("\n")
		dirs := byDepth[depth]
		sort.Strings(dirs)
		for _, dir := range dirs {
			direct := 0
			for _, hit := range st.Files {
				if parentDirOf(hit.Path) == dir {
					direct++
				}
			}
			name := dir + "/"
			if dir == "" {
				name = "/"
			}
			b.WriteString(textStyle.Render(fmt.Sprintf("  - %s (%d files)", name, direct)))
			b.WriteString("\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func parentDirOf(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return ""
	}
	return path[:idx]
}

// AutoScanReport renders tree-wide directory statistics grouped by
// nesting level, the busiest directories first.
func AutoScanReport(ts *query.TreeStats) string {
	exts := make([]string, len(ts.Extensions))
	copy(exts, ts.Extensions)
	sort.Strings(exts)

	var b strings.Builder
	b.WriteString(Header("🔍 AUTO-SCAN NESTED DIRECTORIES"))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Scanned %d directories out of %d total", ts.ScannedDirectories, ts.TotalDirectories)))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Skipped %d directories", ts.SkippedDirectories)))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render("Found file extensions: " + strings.Join(exts, ", ")))
	b.WriteString("\n\n")

	byDepth := make(map[int][]query.DirStats)
	for _, dir := range ts.Directories {
		byDepth[dir.Depth] = append(byDepth[dir.Depth], dir)
	}
	depths := make([]int, 0, len(byDepth))
	for depth := range byDepth {
		depths = append(depths, depth)
	}
	sort.Ints(depths)

	for _, depth := range depths {
		dirs := byDepth[depth]
		files := 0
		for _, dir := range dirs {
			files += dir.FileCount
		}
		b.WriteString(warnStyle.Render(fmt.Sprintf("Level %d: %d directories, %d files", depth, len(dirs), files)))
		b.WriteString("\n")

		sort.SliceStable(dirs, func(i, j int) bool { return dirs[i].FileCount > dirs[j].FileCount })
		shown := len(dirs)
		if shown > maxShownPerLevel {
			shown = maxShownPerLevel
		}
		for _, dir := range dirs[:shown] {
			name := dir.Path
			if name == "" {
				name = "/"
			}
			extList := "none"
			if len(dir.Extensions) > 0 {
				extList = strings.Join(dir.Extensions, ", ")
			}
			b.WriteString(textStyle.Render(fmt.Sprintf("  - %s: %d files (%s)", name, dir.FileCount, extList)))
			b.WriteString("\n")
		}
		if len(dirs) > maxShownPerLevel {
			b.WriteString(faintStyle.Render(fmt.Sprintf("  ... and %d more directories at this level", len(dirs)-maxShownPerLevel)))
			b.WriteString("\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// AutoAnalysisReport renders the results of an automatic analysis
// pass over important files.
func AutoAnalysisReport(a *assist.AutoAnalysis) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("🔍 AUTO-ANALYSIS RESULTS: %d key files analyzed", len(a.Files))))
	b.WriteString("\n")
	for _, file := range a.Files {
		b.WriteString(warnStyle.Render(fmt.Sprintf("\n📄 %s (%d lines)", file.Path, file.Lines)))
		b.WriteString("\n")
		if file.Err != "" {
			b.WriteString(errorStyle.Render("Error: " + file.Err))
		} else {
			b.WriteString(textStyle.Render(file.Analysis))
		}
		b.WriteString("\n")
		b.WriteString(faintStyle.Render("-----------------------------------"))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// ModelsReport renders extracted data-model definitions per file.
func ModelsReport(r *schema.Report) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("🔍 MODELS ANALYSIS: %d model file(s)", len(r.Files))))
	b.WriteString("\n")

	for _, file := range r.Files {
		b.WriteString(warnStyle.Render("\n📄 " + file.Path))
		b.WriteString("\n")

		if file.Err != "" {
			b.WriteString(errorStyle.Render("  Error: " + file.Err))
			b.WriteString("\n")
			continue
		}
		if len(file.Models) == 0 {
			b.WriteString(faintStyle.Render("  No models found in this file."))
			b.WriteString("\n")
			continue
		}

		b.WriteString(infoStyle.Render(fmt.Sprintf("  Found %d model(s):", len(file.Models))))
		b.WriteString("\n")
		for _, model := range file.Models {
			b.WriteString(infoStyle.Render("\n  📊 " + model.Name))
			b.WriteString("\n")
			if len(model.Fields) > 0 {
				b.WriteString(textStyle.Render("    Fields:"))
				b.WriteString("\n")
				for _, field := range model.Fields {
					b.WriteString(textStyle.Render(fmt.Sprintf("      - %s: %s", field.Name, field.Type)))
					b.WriteString("\n")
				}
			}
			if len(model.Relationships) > 0 {
				b.WriteString(textStyle.Render("    Relationships:"))
				b.WriteString("\n")
				for _, rel := range model.Relationships {
					b.WriteString(textStyle.Render(fmt.Sprintf("      - %s: %s to %s", rel.Field, rel.Kind, rel.Target)))
					b.WriteString("\n")
				}
			}
			if len(model.Meta) > 0 {
				b.WriteString(textStyle.Render("    Meta:"))
				b.WriteString("\n")
				keys := make([]string, 0, len(model.Meta))
				for key := range model.Meta {
					keys = append(keys, key)
				}
				sort.Strings(keys)
				for _, key := range keys {
					b.WriteString(textStyle.Render(fmt.Sprintf("      - %s: %s", key, model.Meta[key])))
					b.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// FileContent renders a file body with line numbers.
func FileContent(rec *catalog.ContentRecord) string {
	var b strings.Builder
	b.WriteString(Header("📄 FILE CONTENT: " + rec.Path))
	b.WriteString("\n")
	b.WriteString(faintStyle.Render(fmt.Sprintf("Language: %s, Lines: %d", rec.Language, rec.Lines)))
	b.WriteString("\n\n")

	if rec.Content != "" {
		for i, line := range strings.Split(strings.TrimSuffix(rec.Content, "\n"), "\n") {
			b.WriteString(faintStyle.Render(fmt.Sprintf("%4d | ", i+1)))
			b.WriteString(textStyle.Render(line))
			b.WriteString("\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Suggestion renders a freshly generated change proposal.
func Suggestion(p *proposal.Proposal) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("💡 FEATURE IMPLEMENTATION SUGGESTION (ID: %s)", p.ID)))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render("\n🔹 OVERVIEW:"))
	b.WriteString("\n")
	b.WriteString(textStyle.Render(p.Suggestion))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render("\n🔹 PROPOSED CHANGES:"))
	b.WriteString("\n")
	b.WriteString(warnStyle.Render(fmt.Sprintf("  Files to modify: %d", len(p.Modify))))
	b.WriteString("\n")
	for _, mod := range p.Modify {
		b.WriteString(textStyle.Render("  - " + mod.Path))
		b.WriteString("\n")
	}
	b.WriteString(warnStyle.Render(fmt.Sprintf("\n  Files to create: %d", len(p.Create))))
	b.WriteString("\n")
	for _, create := range p.Create {
		b.WriteString(textStyle.Render("  - " + create.Path))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(faintStyle.Render("Use 'approve <change_id>' to apply these changes or 'reject <change_id>' to discard them."))
	return b.String()
}

// PendingList renders the queue of unapproved proposals.
func PendingList(sums []proposal.Summary) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("🕒 PENDING CHANGES (%d)", len(sums))))
	b.WriteString("\n")
	for _, sum := range sums {
		b.WriteString(infoStyle.Render(fmt.Sprintf("\n🔹 ID: %s (%s)", sum.ID, sum.CreatedAt.Format("2006-01-02 15:04:05"))))
		b.WriteString("\n")
		b.WriteString(textStyle.Render("  Feature: " + sum.Description))
		b.WriteString("\n")
		b.WriteString(warnStyle.Render(fmt.Sprintf("  Files to modify: %d", sum.ModifyCount)))
		b.WriteString("\n")
		b.WriteString(warnStyle.Render(fmt.Sprintf("  Files to create: %d", sum.CreateCount)))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// ProposalDetails renders one proposal in full: the suggestion text,
// diffs for modified files, and a content preview for new ones.
func ProposalDetails(p *proposal.Proposal) string {
	var b strings.Builder
	b.WriteString(Header("📋 CHANGE DETAILS: " + p.ID))
	b.WriteString("\n")
	b.WriteString(textStyle.Render("Feature: " + p.Description))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render("\nSuggestion:"))
	b.WriteString("\n")
	b.WriteString(textStyle.Render(p.Suggestion))
	b.WriteString("\n")

	if len(p.Modify) > 0 {
		b.WriteString(infoStyle.Render("\nFiles to modify:"))
		b.WriteString("\n")
		for _, mod := range p.Modify {
			b.WriteString(warnStyle.Render(fmt.Sprintf("\n--- %s ---", mod.Path)))
			b.WriteString("\n")
			b.WriteString(mod.Diff)
			b.WriteString("\n")
		}
	}
	if len(p.Create) > 0 {
		b.WriteString(infoStyle.Render("\nFiles to create:"))
		b.WriteString("\n")
		for _, create := range p.Create {
			b.WriteString(successStyle.Render(fmt.Sprintf("\n+++ %s +++", create.Path)))
			b.WriteString("\n")
			content := create.Content
			if len(content) > createPreviewChars {
				content = content[:createPreviewChars] + "..."
			}
			b.WriteString(content)
			b.WriteString("\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// ApplyReport renders the outcome of approving a proposal.
func ApplyReport(res *proposal.ApplyResult) string {
	var b strings.Builder
	if res.Applied {
		b.WriteString(Header("✅ CHANGES APPLIED SUCCESSFULLY"))
		b.WriteString("\n")
		if len(res.ModifiedFiles) > 0 {
			b.WriteString(infoStyle.Render(fmt.Sprintf("\n🔹 Modified %d files:", len(res.ModifiedFiles))))
			b.WriteString("\n")
			for _, file := range res.ModifiedFiles {
				b.WriteString(textStyle.Render("  - " + file))
				b.WriteString("\n")
			}
		}
		if len(res.CreatedFiles) > 0 {
			b.WriteString(infoStyle.Render(fmt.Sprintf("\n🔹 Created %d files:", len(res.CreatedFiles))))
			b.WriteString("\n")
			for _, file := range res.CreatedFiles {
				b.WriteString(textStyle.Render("  - " + file))
				b.WriteString("\n")
			}
		}
		b.WriteString(faintStyle.Render("\n📁 Backup created at: " + res.BackupDir))
		return b.String()
	}

	b.WriteString(Header("❌ ERROR APPLYING CHANGES"))
	b.WriteString("\n")
	for _, e := range res.Errors {
		b.WriteString(errorStyle.Render("- " + e))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
