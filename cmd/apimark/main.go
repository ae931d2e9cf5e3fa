package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/apimark/cmd/apimark/commands"
	apimarkerrors "git.home.luguber.info/inful/apimark/internal/errors"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	cli := commands.CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("apimark"),
		kong.Description("Convert a structured API documentation dump into a tree of Markdown pages"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	if err := ctx.Run(&commands.Global{Logger: slog.Default()}, &cli); err != nil {
		adapter := apimarkerrors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
		adapter.HandleError(err)
	}
}
