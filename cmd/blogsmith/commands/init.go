package commands

import (
	"fmt"

	"github.com/blogsmith/blogsmith/internal/config"
)

// InitCmd writes a starter settings file (and the production override
// sibling) into the current directory.
type InitCmd struct {
	Force bool `help:"Overwrite existing settings files"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	if err := config.Init(root.Settings, i.Force); err != nil {
		return err
	}
	fmt.Println("Wrote", root.Settings)
	return nil
}
