package scaffold

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/blogsmith/blogsmith/internal/config"
)

// ErrNoEditor means no editor could be resolved from settings or the
// environment.
var ErrNoEditor = errors.New("no editor configured (set editor in settings, or $BLOGSMITH_EDITOR / $EDITOR)")

// ResolveEditor picks the editor command: settings first, then
// $BLOGSMITH_EDITOR, then $EDITOR.
func ResolveEditor(settings *config.Settings) (string, error) {
	for _, candidate := range []string{settings.Editor, os.Getenv("BLOGSMITH_EDITOR"), os.Getenv("EDITOR")} {
		if strings.TrimSpace(candidate) != "" {
			return candidate, nil
		}
	}
	return "", ErrNoEditor
}

// OpenEditor runs the editor on path, attached to the terminal. The
// editor value may carry arguments ("code --wait").
func OpenEditor(settings *config.Settings, path string) error {
	editor, err := ResolveEditor(settings)
	if err != nil {
		return err
	}

	parts := strings.Fields(editor)
	args := append(parts[1:], path)

	cmd := exec.Command(parts[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %s: %w", parts[0], err)
	}
	return nil
}
