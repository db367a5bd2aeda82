package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docframe"
	"github.com/fwojciec/docframe/fs"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// FileConfig is the configuration file as written by the user. Directories
// are relative to the application directory.
type FileConfig struct {
	AppName        string             `json:"app_name" yaml:"app_name"`
	BackLink       string             `json:"back_link" yaml:"back_link"`
	BackText       string             `json:"back_text" yaml:"back_text"`
	Port           *int               `json:"port" yaml:"port"`
	StaticDir      string             `json:"static_dir" yaml:"static_dir"`
	FrameStaticDir string             `json:"frame_static_dir" yaml:"frame_static_dir"`
	Mermaid        *bool              `json:"mermaid" yaml:"mermaid"`
	Docs           DocsFileConfig     `json:"docs" yaml:"docs"`
	Help           HelpFileConfig     `json:"help" yaml:"help"`
	CustomRoots    []CustomRootConfig `json:"custom_roots" yaml:"custom_roots"`
	PWA            docframe.PWAConfig `json:"pwa" yaml:"pwa"`
}

// DocsFileConfig is the docs section of the configuration file.
type DocsFileConfig struct {
	Enabled       *bool                 `json:"enabled" yaml:"enabled"`
	Dir           string                `json:"dir" yaml:"dir"`
	FrameworkDir  string                `json:"framework_dir" yaml:"framework_dir"`
	FrameworkName string                `json:"framework_name" yaml:"framework_name"`
	Sections      []docframe.SectionDef `json:"sections" yaml:"sections"`
	Exclude       []string              `json:"exclude" yaml:"exclude"`
	AutoDiscover  *bool                 `json:"auto_discover" yaml:"auto_discover"`
}

// HelpFileConfig is the help section of the configuration file.
type HelpFileConfig struct {
	Enabled *bool  `json:"enabled" yaml:"enabled"`
	Dir     string `json:"dir" yaml:"dir"`
}

// CustomRootConfig declares an additional documentation directory.
type CustomRootConfig struct {
	Name     string                `json:"name" yaml:"name"`
	Dir      string                `json:"dir" yaml:"dir"`
	Sections []docframe.SectionDef `json:"sections" yaml:"sections"`
}

// Configuration defaults.
const (
	DefaultAppName       = "docframe"
	DefaultBackLink      = "/"
	DefaultBackText      = "Back"
	DefaultPort          = 8080
	DefaultStaticDir     = "static"
	DefaultDocsDir       = "docs"
	DefaultHelpDir       = "help"
	DefaultFrameworkName = fs.DefaultFrameworkName
)

// IconsDir is the directory under the static root that holds generated icons.
const IconsDir = "icons"

// LoadConfigFile reads a configuration file. Files ending in .yaml or .yml
// are YAML; anything else is JSON with comments and trailing commas allowed.
// A missing file yields an empty configuration and found=false.
func LoadConfigFile(path string) (cfg FileConfig, found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err = ParseConfig(data, filepath.Ext(path))
	if err != nil {
		return FileConfig{}, false, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, true, nil
}

// ParseConfig decodes configuration data. ext selects the format.
func ParseConfig(data []byte, ext string) (FileConfig, error) {
	var cfg FileConfig

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return FileConfig{}, docframe.Errorf(docframe.EINVALID, "invalid YAML: %v", err)
		}
	default:
		standardized, err := hujson.Standardize(data)
		if err != nil {
			return FileConfig{}, docframe.Errorf(docframe.EINVALID, "invalid JSONC: %v", err)
		}
		if err := json.Unmarshal(standardized, &cfg); err != nil {
			return FileConfig{}, docframe.Errorf(docframe.EINVALID, "invalid JSON: %v", err)
		}
	}
	return cfg, nil
}

// withDefaults returns a copy of c with defaults applied to unset fields.
func (c FileConfig) withDefaults() FileConfig {
	if c.AppName == "" {
		c.AppName = DefaultAppName
	}
	if c.BackLink == "" {
		c.BackLink = DefaultBackLink
	}
	if c.BackText == "" {
		c.BackText = DefaultBackText
	}
	if c.Port == nil {
		c.Port = ptr(DefaultPort)
	}
	if c.StaticDir == "" {
		c.StaticDir = DefaultStaticDir
	}
	if c.Mermaid == nil {
		c.Mermaid = ptr(true)
	}
	if c.Docs.Enabled == nil {
		c.Docs.Enabled = ptr(true)
	}
	if c.Docs.Dir == "" {
		c.Docs.Dir = DefaultDocsDir
	}
	if c.Docs.FrameworkName == "" {
		c.Docs.FrameworkName = DefaultFrameworkName
	}
	if c.Docs.AutoDiscover == nil {
		c.Docs.AutoDiscover = ptr(true)
	}
	if c.Help.Enabled == nil {
		c.Help.Enabled = ptr(true)
	}
	if c.Help.Dir == "" {
		c.Help.Dir = DefaultHelpDir
	}
	return c
}

// Build applies defaults, registers every configured directory in paths and
// returns the validated application configuration.
func (c FileConfig) Build(paths *fs.Paths) (*docframe.Config, error) {
	c = c.withDefaults()

	cfg := docframe.Config{
		AppName:  c.AppName,
		BackLink: c.BackLink,
		BackText: c.BackText,
		Port:     *c.Port,
		Mermaid:  *c.Mermaid,
		Docs: docframe.DocsConfig{
			Enabled:      *c.Docs.Enabled,
			Key:          fs.DocsKey,
			Sections:     c.Docs.Sections,
			Exclude:      c.Docs.Exclude,
			AutoDiscover: *c.Docs.AutoDiscover,
		},
		Help: docframe.HelpConfig{
			Enabled: *c.Help.Enabled,
			Key:     fs.HelpKey,
		},
		PWA: c.PWA,
	}

	if err := paths.Register(fs.DocsKey, c.Docs.Dir); err != nil {
		return nil, err
	}
	if err := paths.Register(fs.HelpKey, c.Help.Dir); err != nil {
		return nil, err
	}
	if err := paths.Register(fs.StaticKey, c.StaticDir); err != nil {
		return nil, err
	}
	if c.FrameStaticDir != "" {
		if err := paths.Register(fs.FrameStaticKey, c.FrameStaticDir); err != nil {
			return nil, err
		}
	}
	if c.Docs.FrameworkDir != "" {
		if err := paths.Register(fs.FrameworkDocsKey, c.Docs.FrameworkDir); err != nil {
			return nil, err
		}
		cfg.Docs.FrameworkKey = fs.FrameworkDocsKey
		cfg.Docs.FrameworkName = c.Docs.FrameworkName
	}

	for _, r := range c.CustomRoots {
		key := fs.CustomKey(r.Name)
		if r.Dir == "" {
			key = ""
		}
		root := docframe.CustomRoot{Name: r.Name, Key: key, Sections: r.Sections}
		cfg.CustomRoots = append(cfg.CustomRoots, root)
		// Missing names, missing dirs and duplicates are reported by NewConfig.
		if r.Name == "" || key == "" {
			continue
		}
		if _, ok := paths.Registered(key); ok {
			continue
		}
		if err := paths.Register(key, r.Dir); err != nil {
			return nil, err
		}
	}

	return docframe.NewConfig(cfg)
}

// Warnings describes features that are enabled but cannot work as
// configured. Each affected feature degrades rather than failing startup.
func Warnings(cfg *docframe.Config, file FileConfig, paths *fs.Paths) []string {
	var out []string

	missing := func(key string) bool {
		_, ok := paths.Resolve(key)
		return !ok
	}
	dir := func(key string) string {
		d, _ := paths.Registered(key)
		return d
	}

	if cfg.Docs.Enabled && missing(cfg.Docs.Key) {
		out = append(out, fmt.Sprintf("docs enabled but %s does not exist; create it or set docs.enabled=false", dir(cfg.Docs.Key)))
	}
	if cfg.Docs.FrameworkKey != "" && missing(cfg.Docs.FrameworkKey) {
		out = append(out, fmt.Sprintf("framework docs directory %s does not exist", dir(cfg.Docs.FrameworkKey)))
	}
	if cfg.Help.Enabled && missing(cfg.Help.Key) {
		out = append(out, fmt.Sprintf("help enabled but %s does not exist; create it or set help.enabled=false", dir(cfg.Help.Key)))
	}
	for _, r := range cfg.CustomRoots {
		if missing(r.Key) {
			out = append(out, fmt.Sprintf("custom root %q: directory %s does not exist", r.Name, dir(r.Key)))
		}
	}
	if pwaConfigured(file.PWA) && !cfg.PWA.IconsEnabled() {
		out = append(out, "pwa configured without icon.line2_text; icons will not be generated")
	}
	return out
}

// pwaConfigured reports whether the user wrote any PWA settings.
func pwaConfigured(p docframe.PWAConfig) bool {
	i := p.Icon
	return p.ThemeColor != "" || i.Background != nil || i.Line1Text != nil ||
		i.Line1Color != nil || i.Line1Size != nil || i.Line2Text != nil ||
		i.Line2Color != nil || i.Line2Size != nil
}

func ptr[T any](v T) *T {
	return &v
}
