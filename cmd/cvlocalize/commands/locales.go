package commands

import (
	"fmt"
)

// LocalesCmd implements the 'locales' command.
type LocalesCmd struct{}

func (l *LocalesCmd) Run(g *Global, root *CLI) error {
	rt, err := root.setup(g)
	if err != nil {
		return err
	}
	for _, e := range rt.catalog.Entries() {
		if _, err := fmt.Fprintf(g.Stdout, "%-8s %s\n", e.Code, e.Name); err != nil {
			return err
		}
	}
	return nil
}
