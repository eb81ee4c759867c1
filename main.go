package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mcncl/jsongrid/internal/config"
	"github.com/mcncl/jsongrid/internal/errors"
	"github.com/mcncl/jsongrid/internal/grid"
	"github.com/mcncl/jsongrid/internal/logging"
	"github.com/mcncl/jsongrid/internal/models"
	"github.com/mcncl/jsongrid/internal/parser"
	"github.com/mcncl/jsongrid/internal/render"
	"github.com/mcncl/jsongrid/internal/rows"
	"github.com/mcncl/jsongrid/internal/tui"
	"github.com/mcncl/jsongrid/internal/watch"
)

// CLI defines the command-line interface
var CLI struct {
	Input         string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output        string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Config        string `help:"Path to config file. If not specified, searches for .jsongrid.yml in the current and parent directories." short:"c" type:"path"`
	Format        string `help:"Output format: table, csv, markdown, html, json, tree, pretty or minify." short:"f"`
	Mode          string `help:"View mode: auto, table or tree."`
	Filter        string `help:"Keep only rows whose JSON text contains this text (case-insensitive)."`
	Sort          string `help:"Sort rows by this column."`
	Desc          bool   `help:"Sort in descending order."`
	Skip          int    `help:"Skip this many rows before printing."`
	Rows          int    `help:"Print at most this many rows (0 prints all)."`
	HeaderStyle   string `help:"Column header style: raw, title, snake, kebab, camel or pascal."`
	Color         string `help:"Colour output: auto, always or never."`
	CollapseDepth int    `help:"Collapse tree nodes at this depth and deeper (0 expands all)." default:"-1"`
	TUI           bool   `help:"Open the interactive viewer." short:"t" name:"tui"`
	Watch         bool   `help:"Reload when the input file changes." short:"w"`
	Debug         bool   `help:"Enable debug logging." short:"d"`
	LogFile       string `help:"Write logs to this file." type:"path"`
	Version       bool   `help:"Show version information." short:"v"`
	Interactive   bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Logger *slog.Logger
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	// Parse CLI arguments with Kong
	parser := kong.Must(&CLI,
		kong.Name("jsongrid"),
		kong.Description("View JSON as a sortable, filterable table or a collapsible tree"),
		kong.UsageOnError(),
	)

	// Check if no arguments provided and set interactive mode by default
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	if _, err := parser.Parse(os.Args[1:]); err != nil {
		// If there's an error parsing arguments, the usage will already be shown by kong.UsageOnError()
		os.Exit(1)
	}

	// Show version and exit if requested
	if CLI.Version {
		fmt.Printf("jsongrid version %s\n", Version)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	logger, closeLog, err := logging.New(logging.Options{
		Debug:  cfg.Dev.Debug,
		File:   cfg.Dev.LogFile,
		Writer: logWriter(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(errors.NewConfigError("failed to open log file", err)))
		os.Exit(1)
	}
	defer func() { _ = closeLog() }()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = run(logging.WithLogger(sigCtx, logger), &Context{Debug: cfg.Dev.Debug, Config: cfg, Logger: logger})
	if err != nil {
		// The placeholder has already been printed for input that did not parse.
		if errors.IsParseFailure(err) {
			logger.Debug("input did not parse", "error", err)
			stop()
			_ = closeLog()
			os.Exit(1)
		}

		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))

		// Show help on error
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsongrid --help\n")

		stop()
		_ = closeLog()
		os.Exit(1)
	}
}

// loadConfig resolves the config file and applies the command-line overrides
func loadConfig() (*config.Config, error) {
	path := CLI.Config
	if path == "" {
		path = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigWithCLI(path, overrides())
	if err != nil {
		return nil, errors.NewConfigError(err.Error(), err)
	}
	return cfg, nil
}

func overrides() config.Overrides {
	o := config.NoOverrides()
	o.Format = CLI.Format
	o.Mode = CLI.Mode
	o.Color = CLI.Color
	o.HeaderStyle = CLI.HeaderStyle
	o.Debug = CLI.Debug
	o.LogFile = CLI.LogFile
	o.CollapseDepth = CLI.CollapseDepth
	return o
}

// logWriter sends logs to stderr, except in the interactive viewer which
// owns the terminal.
func logWriter() io.Writer {
	if CLI.TUI {
		return nil
	}
	return os.Stderr
}

// run executes the main program logic
func run(ctx context.Context, c *Context) error {
	logger := c.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	// 1. Parse JSON input
	g := newGrid(c.Config, logger)
	v, err := parseInput()
	switch {
	case err == nil:
		g.SetValue(v)
	case errors.IsParseFailure(err):
		g.SetDataset(grid.Failed(err))
	default:
		return err
	}

	// 2. Apply the row filter and sort
	applyView(g, logger)

	// 3. Interactive viewer
	if CLI.TUI {
		return runTUI(ctx, c, g)
	}

	// 4. Render, then keep rendering on change in watch mode
	if err := writeOutput(c, g); err != nil {
		// In watch mode the placeholder stays up until the file parses.
		if !CLI.Watch || !errors.IsParseFailure(err) {
			return err
		}
	}
	if CLI.Watch {
		return watchAndRender(ctx, c, g)
	}
	return nil
}

func newGrid(cfg *config.Config, logger *slog.Logger) *grid.Grid {
	return grid.New(grid.Options{
		RowHeight:     cfg.View.RowHeight,
		Overscan:      cfg.View.Overscan,
		Viewport:      cfg.View.ViewportRows,
		CollapseDepth: cfg.Tree.CollapseDepth,
		ForceTree:     cfg.View.Mode == "tree",
		Logger:        logger,
	})
}

func applyView(g *grid.Grid, logger *slog.Logger) {
	g.SetFilter(CLI.Filter)
	if CLI.Sort == "" {
		return
	}
	if g.Valid() && !slices.Contains(g.Columns(), CLI.Sort) {
		logger.Debug("sort column not found", "column", CLI.Sort, "error", errors.ErrUnknownColumn)
	}
	g.SetSort(rows.SortBy(CLI.Sort, CLI.Desc))
}

func runTUI(ctx context.Context, c *Context, g *grid.Grid) error {
	opts := tui.Options{
		Config: c.Config,
		Logger: c.Logger,
		Source: CLI.Input,
		Color:  c.Config.Output.Color != "never",
	}
	if CLI.Watch {
		w, err := watch.New(CLI.Input, watch.DefaultDebounce, c.Logger)
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()
		opts.Watcher = w
	}
	return tui.Run(ctx, tui.New(g, opts))
}

// watchAndRender re-renders the output after every change to the input file
// until ctx is done.
func watchAndRender(ctx context.Context, c *Context, g *grid.Grid) error {
	w, err := watch.New(CLI.Input, watch.DefaultDebounce, c.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	fmt.Fprintf(os.Stderr, "Watching %s, press Ctrl+C to stop\n", CLI.Input)
	for {
		ev, ok := w.Next(ctx)
		if !ok {
			return nil
		}
		if ev.Err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(ev.Err))
			continue
		}
		g.SetText(string(ev.Data))
		if err := writeOutput(c, g); err != nil && !errors.IsParseFailure(err) {
			return err
		}
	}
}

// parseInput reads JSON from file or stdin
func parseInput() (models.Value, error) {
	if CLI.Input != "" {
		// Parse from file
		return parser.ParseFile(CLI.Input)
	}

	// Check if stdin has data
	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return models.Null(), errors.NewInputError("failed to access stdin", err)
	}

	// Interactive mode or piped input
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			// Interactive mode
			return readInteractiveInput()
		}
		// No data provided on stdin and not in interactive mode
		return models.Null(), errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	// Read from stdin (piped input)
	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return models.Null(), errors.NewInputError("failed to read from stdin", err)
	}

	if len(jsonData) == 0 {
		return models.Null(), errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseBytes(jsonData)
}

// writeOutput renders g to the output file or stdout. The render error of
// unparsed input is returned after the placeholder is written.
func writeOutput(c *Context, g *grid.Grid) error {
	var out io.Writer = os.Stdout
	if CLI.Output != "" {
		out = io.Discard
	}

	r := render.New(render.Options{
		Config: c.Config,
		Logger: c.Logger,
		Color:  render.ColorEnabled(c.Config.Output.Color, out),
		Skip:   CLI.Skip,
		Limit:  CLI.Rows,
	})

	var buf bytes.Buffer
	renderErr := r.Render(&buf, g)
	if renderErr != nil && !errors.IsParseFailure(renderErr) {
		return renderErr
	}

	if CLI.Output != "" {
		// Write to file
		if err := os.WriteFile(CLI.Output, buf.Bytes(), 0644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Output written to %s\n", CLI.Output)
		return renderErr
	}

	// Write to stdout
	if _, err := os.Stdout.Write(buf.Bytes()); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return renderErr
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (models.Value, error) {
	fmt.Fprintln(os.Stderr, "jsongrid Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	// Read all input until EOF (Ctrl+D)
	reader := bufio.NewReader(os.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			// End of input
			break
		}
		if err != nil {
			return models.Null(), errors.NewInputError("error reading input", err)
		}
	}

	jsonData := jsonBuilder.String()
	if len(jsonData) == 0 {
		return models.Null(), errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return parser.ParseString(jsonData)
}
