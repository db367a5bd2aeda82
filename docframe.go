// Package docframe aggregates Markdown documentation trees into ordered,
// presentation-ready structures. It merges an application's own docs with a
// shared framework's docs and any app-defined custom roots, extracts titles
// and descriptions with lightweight heuristics, and keeps generated PWA icon
// assets current through a content-hash cache.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., fs/, etree/, http/).
package docframe
