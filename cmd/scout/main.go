// Package main provides the scout interactive codebase assistant.
//
// scout scans a source tree into an in-memory catalog and answers
// navigation, search, and analysis commands from a single prompt:
//
//	scan <path>       - Scan and analyze a codebase directory
//	ls / cd / pwd     - Navigate the scanned tree
//	search <query>    - Find a pattern across loaded files
//	analyze <file>    - Explain one file with the LLM
//	suggest <feature> - Draft a change proposal for review
//	approve <id>      - Apply a pending proposal, backing up first
//
// Anything that is not a command is answered as a question about the
// codebase. LLM calls go through a rate limiter and circuit breaker;
// suggested edits only touch disk after approval.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/ternarybob/scout/internal/config"
	"github.com/ternarybob/scout/internal/logger"
	"github.com/ternarybob/scout/internal/ui"
	"github.com/ternarybob/scout/pkg/assist"
	"github.com/ternarybob/scout/pkg/catalog"
	"github.com/ternarybob/scout/pkg/llm"
	"github.com/ternarybob/scout/pkg/query"
)

// version is set via -ldflags at build time
var version = "dev"

// cliFlags holds all the command-line flag values.
type cliFlags struct {
	Root        string
	Config      string
	Model       string
	LogLevel    string
	ShowVersion bool
}

// parseFlags defines and parses command-line flags using pflag.
func parseFlags() *cliFlags {
	f := &cliFlags{}

	pflag.StringVarP(&f.Root, "root", "r", "", "Scan this directory on startup.")
	pflag.StringVarP(&f.Config, "config", "c", "", "Path to the configuration file.")
	pflag.StringVarP(&f.Model, "model", "m", "", "Override the configured LLM model.")
	pflag.StringVar(&f.LogLevel, "log-level", "", "Override the configured log level (debug, info, warn, error).")
	pflag.BoolVarP(&f.ShowVersion, "version", "v", false, "Show version information.")

	pflag.Usage = func() {
		fmt.Println("Usage: scout [flags]")
		fmt.Println("\nInteractive codebase assistant: scan, navigate, search, and modify a source tree from one prompt.")
		fmt.Println("\nExample: scout --root ~/src/myproject")
		fmt.Println("\nFlags:")
		pflag.PrintDefaults()
	}

	pflag.Parse()
	return f
}

func main() {
	flags := parseFlags()
	if flags.ShowVersion {
		fmt.Printf("scout version %s\n", version)
		return
	}

	cfg, err := config.Load(config.Resolve(flags.Config))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if flags.Model != "" {
		cfg.LLM.Model = flags.Model
	}
	if flags.LogLevel != "" {
		cfg.Logging.Level = flags.LogLevel
	}

	log := logger.Setup(cfg)
	defer logger.Stop()
	log.Info().Str("version", version).Str("provider", cfg.LLM.Provider).Str("model", cfg.LLM.Model).Msg("scout starting")

	session := assist.New(assist.Options{
		Completer: buildCompleter(cfg),
		Scan: catalog.ScanOptions{
			IgnoreDirs:  cfg.Scan.IgnoreDirs,
			MaxDepth:    cfg.Scan.MaxDepth,
			MaxFileSize: cfg.Scan.MaxFileSize(),
		},
		AnalysisTemperature:   cfg.LLM.AnalysisTemperature,
		SuggestionTemperature: cfg.LLM.SuggestionTemperature,
		Logger:                log,
	})

	r := newREPL(session, os.Stdin, os.Stdout)
	fmt.Print(ui.Welcome())
	fmt.Println(ui.Help())

	if flags.Root != "" {
		r.runOnce("scan " + config.ExpandHome(flags.Root))
	}
	r.Run()
}

// buildCompleter wires the configured provider behind the shared rate
// limiter and circuit breaker.
func buildCompleter(cfg *config.Config) llm.Completer {
	limiter := llm.NewRateLimiter(cfg.LLM.RateLimitCalls, time.Duration(cfg.LLM.RateWindow())*time.Second)
	breaker := llm.NewCircuitBreaker(llm.CircuitBreakerConfig{})

	var client llm.Completer
	switch cfg.LLM.Provider {
	case "ollama":
		client = llm.NewOllamaClient(llm.OllamaConfig{
			BaseURL: cfg.LLM.OllamaURL,
			Model:   cfg.LLM.Model,
		})
	default:
		client = llm.NewGeminiClient(llm.Config{
			APIKey: cfg.LLM.APIKey,
			Model:  cfg.LLM.Model,
		})
	}
	return llm.NewGuard(client, limiter, breaker)
}

// ValidationError reports a command argument the user got wrong.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// repl runs the interactive command loop over one assistant session.
type repl struct {
	session *assist.Session
	in      *bufio.Scanner
	out     io.Writer
}

func newREPL(session *assist.Session, in io.Reader, out io.Writer) *repl {
	return &repl{
		session: session,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

func (r *repl) print(s string) {
	fmt.Fprintln(r.out, s)
}

// Run reads commands until quit or EOF. Command failures print and
// the loop keeps going.
func (r *repl) Run() {
	for {
		fmt.Fprint(r.out, "\n"+ui.Prompt(r.session.Cursor().CurrentRel(), r.session.Catalog().Scanned()))
		if !r.in.Scan() {
			r.print(ui.Goodbye())
			return
		}

		input := strings.TrimSpace(r.in.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "quit") {
			r.print(ui.Goodbye())
			return
		}
		r.runOnce(input)
	}
}

// runOnce dispatches one command with interrupt handling and renders
// any failure.
func (r *repl) runOnce(input string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := r.dispatch(ctx, input); err != nil {
		if errors.Is(err, context.Canceled) {
			r.print(ui.Warn("\nOperation cancelled by user."))
			return
		}
		r.print(ui.Error(err))
	}
}

// splitCommand separates the lowercase command word from its argument
// text. Arguments keep their case.
func splitCommand(input string) (string, string) {
	cmd, arg := input, ""
	if i := strings.IndexAny(input, " \t"); i >= 0 {
		cmd, arg = input[:i], strings.TrimSpace(input[i+1:])
	}
	return strings.ToLower(cmd), arg
}

func (r *repl) dispatch(ctx context.Context, input string) error {
	cmd, arg := splitCommand(input)

	switch cmd {
	case "help":
		r.print(ui.Help())
		return nil
	case "scan":
		return r.cmdScan(ctx, arg)
	case "ls":
		return r.cmdList("")
	case "cd":
		if arg == "" {
			return &ValidationError{Msg: "usage: cd <directory>"}
		}
		return r.cmdList(arg)
	case "pwd":
		return r.cmdPwd()
	case "summary":
		return r.cmdSummary(ctx)
	case "analyze":
		if arg == "" {
			return &ValidationError{Msg: "usage: analyze <file_path>"}
		}
		return r.cmdAnalyze(ctx, arg)
	case "autoanalyze":
		return r.cmdAutoAnalyze(ctx)
	case "search":
		if arg == "" {
			return &ValidationError{Msg: "usage: search <query>"}
		}
		return r.cmdSearch(arg)
	case "context":
		return r.cmdContext(arg)
	case "findfiles":
		if arg == "" {
			return &ValidationError{Msg: "usage: findfiles <pattern>"}
		}
		return r.cmdFindFiles(arg)
	case "findhere":
		if arg == "" {
			return &ValidationError{Msg: "usage: findhere <pattern>"}
		}
		return r.cmdFindHere(arg)
	case "viewfile":
		if arg == "" {
			return &ValidationError{Msg: "usage: viewfile <file_path>"}
		}
		return r.cmdViewFile(arg)
	case "models":
		return r.cmdModels()
	case "extension":
		if arg == "" {
			return &ValidationError{Msg: "usage: extension <ext>"}
		}
		return r.cmdExtension(arg)
	case "scandir":
		if arg == "" {
			return &ValidationError{Msg: "usage: scandir <dir>"}
		}
		return r.cmdScanDir(arg)
	case "autoscan":
		return r.cmdAutoScan()
	case "suggest":
		if arg == "" {
			return &ValidationError{Msg: "usage: suggest <feature>"}
		}
		return r.cmdSuggest(ctx, arg)
	case "pending":
		return r.cmdPending()
	case "details":
		if arg == "" {
			return &ValidationError{Msg: "usage: details <change_id>"}
		}
		return r.cmdDetails(arg)
	case "approve":
		if arg == "" {
			return &ValidationError{Msg: "usage: approve <change_id>"}
		}
		return r.cmdApprove(arg)
	case "reject":
		if arg == "" {
			return &ValidationError{Msg: "usage: reject <change_id>"}
		}
		return r.cmdReject(arg)
	default:
		return r.cmdChat(ctx, input)
	}
}

func (r *repl) cmdScan(ctx context.Context, path string) error {
	if path == "" {
		return &ValidationError{Msg: "usage: scan <path>"}
	}

	r.print(ui.Info("\n📂 Scanning codebase... This may take a moment."))
	sum, err := r.session.ScanCodebase(ctx, config.ExpandHome(path))
	if err != nil {
		return err
	}
	r.print(ui.ScanResult(sum))

	summary, err := r.session.ProjectSummary(ctx)
	if err != nil {
		return err
	}
	r.print(ui.ProjectSummary(summary))

	return r.cmdList("")
}

func (r *repl) cmdList(target string) error {
	listing, err := r.session.Cursor().List(target)
	if err != nil {
		return err
	}
	r.print(ui.DirectoryListing(listing))
	return nil
}

func (r *repl) cmdPwd() error {
	if !r.session.Catalog().Scanned() {
		return catalog.ErrNotScanned
	}

	cur := r.session.Cursor()
	rel := cur.CurrentRel()
	if rel == "" {
		rel = "/"
	}
	r.print(ui.Text("Current directory: %s", cur.Current()))
	r.print(ui.Text("Relative to codebase root: %s", rel))
	return nil
}

func (r *repl) cmdSummary(ctx context.Context) error {
	text, err := r.session.ProjectSummary(ctx)
	if err != nil {
		return err
	}
	r.print(ui.ProjectSummary(text))
	return nil
}

func (r *repl) cmdAnalyze(ctx context.Context, path string) error {
	r.print(ui.Info("\n🔍 Analyzing file: %s", path))
	text, err := r.session.AnalyzeFile(ctx, path)
	if err != nil {
		return err
	}
	r.print(ui.FileAnalysis(path, text))
	return nil
}

func (r *repl) cmdAutoAnalyze(ctx context.Context) error {
	r.print(ui.Info("\n🔍 Auto-analyzing key files in the codebase..."))
	res, err := r.session.AutoAnalyze(ctx, 0, 0)
	if err != nil {
		return err
	}
	r.print(ui.AutoAnalysisReport(res))
	return nil
}

func (r *repl) cmdSearch(q string) error {
	r.print(ui.Info("\n🔍 Searching for: %s", q))
	res, err := r.session.Engine().Search(q, 0, true)
	if err != nil {
		return err
	}
	r.print(ui.SearchReport(res))
	return nil
}

func (r *repl) cmdContext(arg string) error {
	parts := strings.Fields(arg)
	if len(parts) < 2 {
		return &ValidationError{Msg: "usage: context <query> <num_lines>"}
	}
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return &ValidationError{Msg: "context lines must be a number"}
	}
	q := strings.Join(parts[:len(parts)-1], " ")

	r.print(ui.Info("\n🔍 Searching for: %s (with %d context lines)", q, n))
	res, err := r.session.ContextFor(q, n)
	if err != nil {
		return err
	}
	r.print(ui.SearchReport(res))
	return nil
}

func (r *repl) cmdFindFiles(pattern string) error {
	r.print(ui.Info("\n🔍 Finding files matching pattern: %s", pattern))
	res, err := r.session.Engine().FindFiles(query.FileQuery{Name: pattern, Recursive: true})
	if err != nil {
		return err
	}
	r.print(ui.FileList(res))
	return nil
}

func (r *repl) cmdFindHere(pattern string) error {
	r.print(ui.Info("\n🔍 Finding files in current directory matching: %s", pattern))
	res, err := r.session.Engine().FindFiles(query.FileQuery{Name: pattern, CurrentDirOnly: true})
	if err != nil {
		return err
	}
	r.print(ui.FileList(res))
	return nil
}

func (r *repl) cmdViewFile(path string) error {
	r.print(ui.Info("\n📄 Viewing file: %s", path))

	cat := r.session.Catalog()
	rel, err := cat.ResolveFile(path, r.session.Cursor().Current())
	if err != nil {
		return err
	}
	rec, err := cat.EnsureContent(rel)
	if err != nil {
		return err
	}
	r.print(ui.FileContent(rec))
	return nil
}

func (r *repl) cmdModels() error {
	r.print(ui.Info("\n🔍 Analyzing models..."))
	report, err := r.session.Models()
	if err != nil {
		return err
	}
	r.print(ui.ModelsReport(report))
	return nil
}

func (r *repl) cmdExtension(ext string) error {
	ext = strings.TrimPrefix(ext, ".")
	r.print(ui.Info("\n🔍 Finding all .%s files...", ext))
	matches, err := r.session.Engine().ByExtension(ext, false)
	if err != nil {
		return err
	}
	r.print(ui.ExtensionReport(ext, matches))
	return nil
}

func (r *repl) cmdScanDir(dir string) error {
	r.print(ui.Info("\n📂 Scanning directory: %s", dir))
	stats, err := r.session.Engine().ScanSubtree(dir, 0)
	if err != nil {
		return err
	}
	r.print(ui.SubtreeReport(stats))
	return nil
}

func (r *repl) cmdAutoScan() error {
	r.print(ui.Info("\n📂 Auto-scanning all nested directories..."))
	stats, err := r.session.Engine().AutoScan(0)
	if err != nil {
		return err
	}
	r.print(ui.AutoScanReport(stats))
	return nil
}

func (r *repl) cmdSuggest(ctx context.Context, feature string) error {
	r.print(ui.Info("\n💡 Generating implementation suggestion for: %s", feature))
	r.print(ui.Hint("This may take a moment..."))

	p, err := r.session.SuggestFeature(ctx, feature)
	if err != nil {
		return err
	}
	r.print(ui.Suggestion(p))
	return nil
}

func (r *repl) cmdPending() error {
	r.print(ui.PendingList(r.session.Proposals().List()))
	return nil
}

func (r *repl) cmdDetails(id string) error {
	p, err := r.session.Proposals().Details(id)
	if err != nil {
		return err
	}
	r.print(ui.ProposalDetails(p))
	return nil
}

func (r *repl) cmdApprove(id string) error {
	r.print(ui.Warn("\n⚠️ Applying changes for %s...", id))
	res, err := r.session.Proposals().Approve(id)
	if err != nil {
		return err
	}
	r.print(ui.ApplyReport(res))
	return nil
}

func (r *repl) cmdReject(id string) error {
	if err := r.session.Proposals().Reject(id); err != nil {
		return err
	}
	r.print(ui.Success("✅ Change %s has been rejected and removed.", id))
	return nil
}

func (r *repl) cmdChat(ctx context.Context, input string) error {
	fmt.Fprint(r.out, ui.Info("\n🤖 Assistant: "))
	text, err := r.session.Chat(ctx, input)
	if err != nil {
		fmt.Fprintln(r.out)
		return err
	}
	r.print(ui.Text("%s", text))
	return nil
}
