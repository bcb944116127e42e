package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/blogsmith/blogsmith/internal/site"
)

// CleanCmd removes the output directory.
type CleanCmd struct {
	Force bool `help:"Remove the output directory even without a generator marker"`
}

func (c *CleanCmd) Run(_ *Global, root *CLI) error {
	settings, err := loadSettings(root.Settings, false)
	if err != nil {
		return err
	}

	out := settings.Paths.Output
	if _, err := os.Stat(out); os.IsNotExist(err) {
		fmt.Println("Nothing to clean:", out)
		return nil
	}

	// Refuse to delete a directory this tool did not generate; the
	// marker file is written on every build.
	if !c.Force {
		if _, err := os.Stat(filepath.Join(out, site.MarkerName)); err != nil {
			return fmt.Errorf("%s does not look like a generated site (no %s marker); use --force to remove anyway", out, site.MarkerName)
		}
	}

	if err := os.RemoveAll(out); err != nil {
		return fmt.Errorf("remove output directory: %w", err)
	}
	fmt.Println("Removed", out)
	return nil
}
