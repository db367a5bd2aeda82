package docframe

import (
	"fmt"
	"regexp"
	"strings"
)

// Config describes an application's documentation surfaces. Build it with
// NewConfig, which validates every field at once.
type Config struct {
	AppName  string
	BackLink string
	BackText string

	// Port is the HTTP listen port. Zero picks a free port.
	Port int

	Mermaid bool

	Docs        DocsConfig
	Help        HelpConfig
	CustomRoots []CustomRoot

	PWA PWAConfig
}

// DocsConfig configures the multi-section developer documentation.
type DocsConfig struct {
	Enabled       bool
	Key           string
	FrameworkKey  string
	FrameworkName string
	Sections      []SectionDef
	Exclude       []string
	AutoDiscover  bool
}

// HelpConfig configures the flat user help.
type HelpConfig struct {
	Enabled bool
	Key     string
}

// CustomRoot is an application-defined Markdown directory exposed through
// the same machinery as docs and help.
type CustomRoot struct {
	Name     string
	Key      string
	Sections []SectionDef
}

// SectionsRequest returns the request building the docs structure.
func (c DocsConfig) SectionsRequest() SectionsRequest {
	return SectionsRequest{
		RootKey:          c.Key,
		FrameworkKey:     c.FrameworkKey,
		FrameworkName:    c.FrameworkName,
		Defs:             c.Sections,
		Exclude:          c.Exclude,
		DisableDiscovery: !c.AutoDiscover,
	}
}

// CustomRoot returns the custom root with the given name.
func (c *Config) CustomRoot(name string) (CustomRoot, bool) {
	for _, r := range c.CustomRoots {
		if r.Name == name {
			return r, true
		}
	}
	return CustomRoot{}, false
}

var customRootNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// NewConfig validates c and returns it. The returned EINVALID error lists
// every problem found rather than only the first.
func NewConfig(c Config) (*Config, error) {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.AppName == "" {
		add("app name required")
	}
	if c.BackLink == "" {
		add("back link required")
	}
	if c.Port < 0 || c.Port > 65535 {
		add("invalid port %d", c.Port)
	}
	if c.Docs.Enabled && c.Docs.Key == "" {
		add("docs enabled but no docs key")
	}
	if c.Docs.FrameworkKey != "" && c.Docs.FrameworkName == "" {
		add("framework docs configured without a section name")
	}
	for i, def := range c.Docs.Sections {
		if def.Name == "" {
			add("docs section %d: name required", i)
		}
	}
	if c.Help.Enabled && c.Help.Key == "" {
		add("help enabled but no help key")
	}

	seen := make(map[string]bool)
	for i, r := range c.CustomRoots {
		switch {
		case r.Name == "":
			add("custom root %d: name required", i)
		case !customRootNameRe.MatchString(r.Name):
			add("custom root %q: name must be lowercase letters, digits, '-' or '_'", r.Name)
		case seen[r.Name]:
			add("custom root %q: duplicate name", r.Name)
		}
		seen[r.Name] = true
		// Roots are keyed by their registered directory.
		if r.Key == "" {
			add("custom root %q: dir required", r.Name)
		}
	}

	icon := c.PWA.IconConfig()
	if icon.Line1Size <= 0 || icon.Line1Size > 1 {
		add("pwa icon line1_size must be in (0, 1], got %g", icon.Line1Size)
	}
	if icon.Line2Size <= 0 || icon.Line2Size > 1 {
		add("pwa icon line2_size must be in (0, 1], got %g", icon.Line2Size)
	}

	if len(problems) > 0 {
		return nil, Errorf(EINVALID, "invalid config: %s", strings.Join(problems, "; "))
	}
	return &c, nil
}
