package main

import (
	"fmt"

	"github.com/fwojciec/techdoc"
)

// Run executes the delete domain command.
func (c *DeleteDomainCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return techdoc.Errorf(techdoc.EINVALID, "use --force to confirm deletion")
	}

	n, err := deps.Documents.DeleteDocumentsByDomain(deps.Ctx, c.Domain)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", techdoc.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted %d documents from %s\n", n, c.Domain)
	return nil
}

// Run executes the delete id command.
func (c *DeleteIDCmd) Run(deps *Dependencies) error {
	if err := deps.Documents.DeleteDocument(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", techdoc.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted document %d\n", c.ID)
	return nil
}
