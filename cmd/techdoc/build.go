package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/techdoc"
	"github.com/fwojciec/techdoc/index"
	"github.com/schollz/progressbar/v3"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	dirs, err := deps.Config.TargetDirsFor(c.Category)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", techdoc.ErrorMessage(err))
		return err
	}

	if !c.NoPrune {
		runPrune(deps)
	}

	files, stats, err := deps.Walker.Walk(deps.Ctx, dirs)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	if stats.MissingDir > 0 {
		fmt.Fprintf(deps.Stderr, "warning: %d target directories not found\n", stats.MissingDir)
	}
	if stats.Unreadable > 0 {
		fmt.Fprintf(deps.Stderr, "warning: %d entries could not be read\n", stats.Unreadable)
	}
	if stats.Partial > 0 {
		fmt.Fprintf(deps.Stderr, "warning: %d blocked files matched a blocklist entry mid-label; check the blocklist\n", stats.Partial)
	}
	fmt.Fprintf(deps.Stdout, "Found %d files (%d skipped, %d blocked)\n", len(files), stats.Skipped, stats.Blocked)
	if len(files) == 0 {
		return nil
	}

	maxLen := c.MaxTextLength
	if maxLen <= 0 {
		maxLen = deps.Config.MaxEmbedTextLength
	}

	var progress index.ProgressFunc
	if !c.Quiet {
		progress = progressBar(deps.Stderr, len(files))
	}

	res, err := deps.Builder.Build(deps.Ctx, index.Request{
		Files:         files,
		Category:      c.Category,
		MaxTextLength: maxLen,
		Reembed:       c.Reembed,
	}, progress)
	if res != nil {
		fmt.Fprintf(deps.Stdout, "New: %d, Updated: %d (%d unchanged), Skipped: %d\n",
			res.New, res.Updated, res.Unchanged, res.Skipped)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: build interrupted: %v\n", err)
		return err
	}
	return nil
}

// progressBar reports build progress on w.
func progressBar(w io.Writer, total int) index.ProgressFunc {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Indexing"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return func(e index.Event) {
		_ = bar.Set(e.Index)
		if e.Index == e.Total {
			_ = bar.Finish()
		}
	}
}
