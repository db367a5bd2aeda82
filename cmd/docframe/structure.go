package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/docframe"
	"github.com/fwojciec/docframe/fs"
)

// Run executes the structure command.
func (c *StructureCmd) Run(deps *Dependencies) error {
	st, err := deps.Documents.ListSections(deps.Ctx, deps.Config.Docs.SectionsRequest())
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docframe.ErrorMessage(err))
		return err
	}
	return printJSON(deps, st)
}

// Run executes the sections command.
func (c *SectionsCmd) Run(deps *Dependencies) error {
	dir, ok := deps.Paths.Resolve(deps.Config.Docs.Key)
	if !ok {
		registered, _ := deps.Paths.Registered(deps.Config.Docs.Key)
		err := docframe.Errorf(docframe.ENOTFOUND, "docs directory %s does not exist", registered)
		fmt.Fprintf(deps.Stderr, "error: %s\n", docframe.ErrorMessage(err))
		return err
	}

	exclude := c.Exclude
	if len(exclude) == 0 {
		exclude = deps.Config.Docs.Exclude
	}

	defs, err := fs.DiscoverSections(deps.Ctx, dir, fs.DiscoverOptions{
		IncludeRoot: !c.NoRoot,
		MaxDepth:    c.MaxDepth,
		Exclude:     exclude,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docframe.ErrorMessage(err))
		return err
	}
	return printJSON(deps, defs)
}

func printJSON(deps *Dependencies, v any) error {
	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
