package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/blogsmith/blogsmith/cmd/blogsmith/commands"
	"github.com/blogsmith/blogsmith/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("blogsmith"),
		kong.Description("Static blog generator and publisher."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	if err := ctx.Run(&commands.Global{}, cli); err != nil {
		fmt.Fprintln(os.Stderr, "blogsmith:", err)
		os.Exit(1)
	}
}
