package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/techdoc"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	results, err := deps.Search.Search(deps.Ctx, c.Query, techdoc.SearchOptions{
		Category: c.Category,
		TopK:     c.TopK,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", techdoc.ErrorMessage(err))
		return err
	}

	if c.JSON {
		if results == nil {
			results = []techdoc.SearchResult{}
		}
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	fmt.Fprintln(deps.Stdout, techdoc.FormatResults(results, techdoc.DefaultPreviewLength))
	return nil
}
