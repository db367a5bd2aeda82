package docframe

import (
	"sort"
	"strings"
)

// LegacyFrameworkMarker is a section path older configurations used to place
// the framework section explicitly. It is skipped when building structures.
const LegacyFrameworkMarker = "AIDE_FRAME"

// OverviewName is the display name of the root-level section.
const OverviewName = "Overview"

// SectionDef names a directory to present as a section.
// An empty Path designates the root-level (Overview) section.
type SectionDef struct {
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	Name string `json:"name" yaml:"name"`
}

// IsRoot reports whether the definition refers to the root directory.
func (d SectionDef) IsRoot() bool {
	return d.Path == ""
}

// StandardSectionDefs is the conventional section order of an application's docs.
var StandardSectionDefs = []SectionDef{
	{Name: OverviewName},
	{Path: "requirements", Name: "Requirements"},
	{Path: "platform", Name: "Platform"},
	{Path: "implementation", Name: "Implementation"},
	{Path: "deployment", Name: "Deployment"},
	{Path: "development", Name: "Development"},
}

// LateSections are the sections the framework section is placed before.
var LateSections = map[string]bool{
	"deployment":  true,
	"development": true,
}

type sectionRank struct {
	major, minor int
}

var knownSectionRanks = map[string]sectionRank{
	"":               {0, 0},
	"requirements":   {1, 0},
	"platform":       {2, 0},
	"implementation": {3, 0},
	"deployment":     {4, 0},
	"development":    {5, 0},
}

const unknownSectionRank = 99

func rankSection(path string) (sectionRank, string) {
	if r, ok := knownSectionRanks[path]; ok {
		return r, ""
	}
	if parent, _, ok := strings.Cut(path, "/"); ok {
		if r, ok := knownSectionRanks[parent]; ok {
			return sectionRank{r.major, r.minor + 1}, ""
		}
	}
	return sectionRank{unknownSectionRank, 0}, path
}

// SortSectionDefs orders discovered section definitions in place. Known
// top-level sections come first in their canonical order, each immediately
// followed by its nested sections in discovery order. All other sections
// follow, ordered by path.
func SortSectionDefs(defs []SectionDef) {
	sort.SliceStable(defs, func(i, j int) bool {
		ri, pi := rankSection(defs[i].Path)
		rj, pj := rankSection(defs[j].Path)
		if ri.major != rj.major {
			return ri.major < rj.major
		}
		if ri.minor != rj.minor {
			return ri.minor < rj.minor
		}
		return pi < pj
	})
}
