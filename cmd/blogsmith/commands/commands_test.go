package commands

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogsmith/blogsmith/internal/site"
)

func parseCLI(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Name("blogsmith"), kong.Vars{"version": "test"})
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return cli, ctx
}

func TestCLI_CommandRouting(t *testing.T) {
	for args, want := range map[string]string{
		"build":              "build",
		"clean":              "clean",
		"serve":              "serve",
		"devserver":          "devserver",
		"github":             "github",
		"new post --title X": "new post",
		"new page -t About":  "new page",
		"edit page abc":      "edit page <slug>",
	} {
		_, ctx := parseCLI(t, strings.Fields(args)...)
		assert.Equal(t, want, ctx.Command(), "args %q", args)
	}
}

func TestCLI_Defaults(t *testing.T) {
	cli, _ := parseCLI(t, "build")
	assert.Equal(t, "settings.yaml", cli.Settings)
	assert.False(t, cli.Build.Drafts)
	assert.False(t, cli.Build.Production)

	cli, _ = parseCLI(t, "serve")
	assert.Equal(t, 8000, cli.Serve.Port)
	assert.Equal(t, "127.0.0.1", cli.Serve.Bind)

	cli, _ = parseCLI(t, "devserver", "--no-drafts")
	assert.False(t, cli.Devserver.Drafts)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug", slog.LevelInfo))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("WARNING", slog.LevelInfo))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("bogus", slog.LevelInfo))
}

func TestCleanCmd_RefusesUnmarkedDirectory(t *testing.T) {
	dir := t.TempDir()
	writeTestSettings(t, dir)

	out := filepath.Join(dir, "output")
	require.NoError(t, os.MkdirAll(out, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "keep.txt"), []byte("x"), 0o644))

	root := &CLI{Settings: filepath.Join(dir, "settings.yaml")}
	cmd := &CleanCmd{}
	err := cmd.Run(&Global{}, root)
	require.Error(t, err)
	assert.FileExists(t, filepath.Join(out, "keep.txt"))

	// With the generator marker present it removes the directory.
	require.NoError(t, os.WriteFile(filepath.Join(out, site.MarkerName), nil, 0o644))
	require.NoError(t, cmd.Run(&Global{}, root))
	assert.NoDirExists(t, out)
}

func TestCleanCmd_MissingOutputIsFine(t *testing.T) {
	dir := t.TempDir()
	writeTestSettings(t, dir)
	root := &CLI{Settings: filepath.Join(dir, "settings.yaml")}
	require.NoError(t, (&CleanCmd{}).Run(&Global{}, root))
}

func writeTestSettings(t *testing.T, dir string) {
	t.Helper()
	body := "site:\n  name: Test\nauthor:\n  name: Tester\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.yaml"), []byte(body), 0o644))
}
