package main

import (
	"fmt"

	"github.com/fwojciec/docframe"
)

// Run executes the icons command.
func (c *IconsCmd) Run(deps *Dependencies) error {
	if !deps.Config.PWA.IconsEnabled() {
		fmt.Fprintln(deps.Stdout, "Icons not configured: set pwa.icon.line2_text to enable generation.")
		return nil
	}

	generated, err := ensureIcons(deps.Ctx, deps, c.Force)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docframe.ErrorMessage(err))
		return err
	}

	if generated {
		fmt.Fprintln(deps.Stdout, "Icons regenerated.")
	} else {
		fmt.Fprintln(deps.Stdout, "Icons up to date.")
	}
	return nil
}
