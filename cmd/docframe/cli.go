package main

import (
	"context"
	"io"
	"log/slog"
	"net"

	"github.com/fwojciec/docframe"
	"github.com/fwojciec/docframe/fs"
	dfprom "github.com/fwojciec/docframe/prometheus"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Config    *docframe.Config
	Paths     *fs.Paths
	Documents docframe.DocumentService
	Icons     docframe.IconService
	Metrics   *dfprom.Metrics

	// Listener, when set, is served instead of listening on the port.
	Listener net.Listener
}

// Globals are the flags shared by every command.
type Globals struct {
	Config   string `short:"c" default:"config.json" env:"DOCFRAME_CONFIG" help:"Config file (JSON with comments, or YAML)"`
	LogLevel string `short:"l" default:"info" enum:"debug,info,warn,error" env:"DOCFRAME_LOG_LEVEL" help:"Log level (debug, info, warn, error)"`
	AppDir   string `name:"app-dir" type:"path" help:"Application directory relative dirs resolve against (default: config file directory)"`
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Globals

	Serve     ServeCmd     `cmd:"" help:"Serve documentation over HTTP"`
	Icons     IconsCmd     `cmd:"" help:"Generate PWA icons if the configuration changed"`
	Structure StructureCmd `cmd:"" help:"Print the docs structure as JSON"`
	Sections  SectionsCmd  `cmd:"" help:"Print section definitions discovered in the docs directory"`
	Files     FilesCmd     `cmd:"" help:"List Markdown files of a root with titles and descriptions"`
	Show      ShowCmd      `cmd:"" help:"Print a document"`
	Toc       TocCmd       `cmd:"" help:"Print the headings of a document with their anchors"`
	Bundle    BundleCmd    `cmd:"" help:"Print every document of a root as one Markdown text"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Port *int `short:"p" help:"Listen port (overrides config)"`
}

// IconsCmd is the "icons" subcommand.
type IconsCmd struct {
	Force bool `short:"f" help:"Regenerate even when icons are current"`
}

// StructureCmd is the "structure" subcommand.
type StructureCmd struct{}

// SectionsCmd is the "sections" subcommand.
type SectionsCmd struct {
	MaxDepth int      `name:"max-depth" default:"2" help:"Directory depth to scan"`
	NoRoot   bool     `name:"no-root" help:"Omit the Overview section for root files"`
	Exclude  []string `short:"x" help:"Directory names to skip (repeatable)"`
}

// FilesCmd is the "files" subcommand.
type FilesCmd struct {
	Root string `arg:"" help:"Root name: docs, help, or a custom root"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Root string `arg:"" help:"Root name: docs, framework, help, or a custom root"`
	Path string `arg:"" help:"Document path relative to the root"`
}

// TocCmd is the "toc" subcommand.
type TocCmd struct {
	Root string `arg:"" help:"Root name: docs, framework, help, or a custom root"`
	Path string `arg:"" help:"Document path relative to the root"`
	JSON bool   `help:"Print headings as JSON"`
}

// BundleCmd is the "bundle" subcommand.
type BundleCmd struct {
	Root string `arg:"" help:"Root name: docs, framework, help, or a custom root"`
}

// rootKey maps a root name given on the command line to its path key.
func rootKey(cfg *docframe.Config, name string) (string, error) {
	switch name {
	case "docs":
		return cfg.Docs.Key, nil
	case "help":
		return cfg.Help.Key, nil
	case "framework":
		if cfg.Docs.FrameworkKey == "" {
			return "", docframe.Errorf(docframe.ENOTFOUND, "no framework docs configured")
		}
		return cfg.Docs.FrameworkKey, nil
	}
	if r, ok := cfg.CustomRoot(name); ok {
		return r.Key, nil
	}
	return "", docframe.Errorf(docframe.ENOTFOUND, "unknown root %q", name)
}
