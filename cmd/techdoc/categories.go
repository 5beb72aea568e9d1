package main

import (
	"fmt"

	"github.com/fwojciec/techdoc"
)

// Run executes the categories command.
func (c *CategoriesCmd) Run(deps *Dependencies) error {
	categories, err := deps.Documents.Categories(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", techdoc.ErrorMessage(err))
		return err
	}

	if len(categories) == 0 {
		fmt.Fprintln(deps.Stdout, "No documents indexed. Use 'techdoc build' to index documentation.")
		return nil
	}

	for _, cat := range categories {
		fmt.Fprintln(deps.Stdout, cat)
	}
	return nil
}
