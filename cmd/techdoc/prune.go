package main

import (
	"fmt"
)

// Run executes the prune command.
func (c *PruneCmd) Run(deps *Dependencies) error {
	runPrune(deps)
	return nil
}

// runPrune removes documents that the current configuration excludes and
// backfills missing URLs. Failures are reported and never returned.
func runPrune(deps *Dependencies) {
	steps := []struct {
		name string
		run  func() (int, error)
		done string
	}{
		{"prune blocked domains", func() (int, error) { return deps.Pruner.PruneDisallowedDomains(deps.Ctx) }, "Removed %d documents from blocked domains\n"},
		{"prune skipped files", func() (int, error) { return deps.Pruner.PruneSkipFiles(deps.Ctx) }, "Removed %d documents matching skip patterns\n"},
		{"backfill URLs", func() (int, error) { return deps.Pruner.BackfillURLs(deps.Ctx) }, "Backfilled %d URLs\n"},
	}
	for _, s := range steps {
		n, err := s.run()
		if err != nil {
			fmt.Fprintf(deps.Stderr, "warning: %s failed: %v\n", s.name, err)
			continue
		}
		if n > 0 {
			fmt.Fprintf(deps.Stdout, s.done, n)
		}
	}
}
