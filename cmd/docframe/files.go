package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/docframe"
)

// Run executes the files command.
func (c *FilesCmd) Run(deps *Dependencies) error {
	key, err := rootKey(deps.Config, c.Root)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docframe.ErrorMessage(err))
		return err
	}

	list, err := deps.Documents.ListFiles(deps.Ctx, key, true)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docframe.ErrorMessage(err))
		return err
	}

	if len(list.Files) == 0 {
		fmt.Fprintf(deps.Stdout, "No documents in %s.\n", c.Root)
		return nil
	}

	for _, f := range list.Files {
		line := f.Path + "  " + f.Title
		if f.Description != "" {
			line += "  " + f.Description
		}
		fmt.Fprintln(deps.Stdout, line)
	}
	return nil
}

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	key, err := rootKey(deps.Config, c.Root)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docframe.ErrorMessage(err))
		return err
	}

	doc, err := deps.Documents.LoadDocument(deps.Ctx, key, c.Path)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docframe.ErrorMessage(err))
		return err
	}

	fmt.Fprint(deps.Stdout, doc.Content)
	if !strings.HasSuffix(doc.Content, "\n") {
		fmt.Fprintln(deps.Stdout)
	}
	return nil
}

// Run executes the toc command.
func (c *TocCmd) Run(deps *Dependencies) error {
	key, err := rootKey(deps.Config, c.Root)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docframe.ErrorMessage(err))
		return err
	}

	doc, err := deps.Documents.LoadDocument(deps.Ctx, key, c.Path)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docframe.ErrorMessage(err))
		return err
	}

	headings := docframe.ExtractHeadings(doc.Content)
	if c.JSON {
		if headings == nil {
			headings = []docframe.Heading{}
		}
		return printJSON(deps, headings)
	}

	for _, h := range headings {
		fmt.Fprintf(deps.Stdout, "%s%s  #%s\n", strings.Repeat("  ", h.Level-1), h.Title, h.Anchor)
	}
	return nil
}

// Run executes the bundle command.
func (c *BundleCmd) Run(deps *Dependencies) error {
	key, err := rootKey(deps.Config, c.Root)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docframe.ErrorMessage(err))
		return err
	}

	paths, err := deps.Documents.ListAll(deps.Ctx, key)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docframe.ErrorMessage(err))
		return err
	}

	docs := make([]*docframe.Content, 0, len(paths))
	for _, p := range paths {
		doc, err := deps.Documents.LoadDocument(deps.Ctx, key, p)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", p, docframe.ErrorMessage(err))
			return err
		}
		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		fmt.Fprintf(deps.Stdout, "No documents in %s.\n", c.Root)
		return nil
	}
	fmt.Fprintln(deps.Stdout, docframe.BundleDocuments(docs))
	return nil
}
