// Package techdoc provides a local semantic index over mirrored technical
// documentation. It cleans scraped HTML and Markdown pages into plain text,
// decides which pages are worth indexing, embeds them as fixed-length
// vectors, and answers similarity queries scoped by category.
//
// This package contains domain types, interfaces and the pure heuristics
// shared by every implementation, following Ben Johnson's Standard Package
// Layout. Implementations live in subdirectories named after their primary
// dependency (e.g., sqlite/, goquery/, gemini/).
package techdoc

// Version is set via ldflags at build time.
var Version = "dev"
