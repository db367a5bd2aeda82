package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docframe"
	"github.com/fwojciec/docframe/etree"
	"github.com/fwojciec/docframe/fs"
	dfprom "github.com/fwojciec/docframe/prometheus"
	dfslog "github.com/fwojciec/docframe/slog"
	"github.com/joho/godotenv"
)

func main() {
	ctx := context.Background()

	// A missing .env file is fine.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Services for end-to-end testing. When nil, Run builds the file system
	// implementations.
	DocumentService docframe.DocumentService
	IconService     docframe.IconService
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docframe"),
		kong.Description("Serve and inspect Markdown documentation trees."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docframe --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.LogLevel)

	if err := m.wire(deps, cli.Globals); err != nil {
		return err
	}

	return kongCtx.Run(deps)
}

// wire loads configuration, registers directories and builds the services
// commands run against.
func (m *Main) wire(deps *Dependencies, g Globals) error {
	file, found, err := LoadConfigFile(g.Config)
	if err != nil {
		return err
	}
	if !found {
		deps.Logger.Debug("config file not found, using defaults", "path", g.Config)
	}

	appDir := g.AppDir
	if appDir == "" {
		appDir = filepath.Dir(g.Config)
	}

	paths, err := fs.NewPaths(appDir)
	if err != nil {
		return err
	}

	cfg, err := file.Build(paths)
	if err != nil {
		return err
	}

	for _, w := range Warnings(cfg, file, paths) {
		deps.Logger.Warn(w)
	}

	metrics := dfprom.NewMetrics(nil)

	documents := m.DocumentService
	if documents == nil {
		documents = fs.NewDocumentService(paths)
	}
	documents = dfslog.NewLoggingDocumentService(documents, deps.Logger)
	documents = dfprom.NewMetricsDocumentService(documents, metrics)

	icons := m.IconService
	if icons == nil {
		icons = fs.NewIconCache(etree.NewIconRenderer())
	}
	icons = dfslog.NewLoggingIconService(icons, deps.Logger)
	icons = dfprom.NewMetricsIconService(icons, metrics)

	deps.Config = cfg
	deps.Paths = paths
	deps.Documents = documents
	deps.Icons = icons
	deps.Metrics = metrics
	return nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}
