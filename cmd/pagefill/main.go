package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pagefill/cmd/pagefill/commands"
	"git.home.luguber.info/inful/pagefill/internal/config"
	"git.home.luguber.info/inful/pagefill/internal/foundation/errors"
	"git.home.luguber.info/inful/pagefill/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{Stdout: os.Stdout, Stderr: os.Stderr}

	parser := kong.Parse(cli,
		kong.Name("pagefill"),
		kong.Description("Fill an HTML shell with site data and page content."),
		kong.UsageOnError(),
		kong.Vars{
			"version":     version.String(),
			"config_path": config.DefaultPath,
		},
		kong.Bind(global),
	)

	err := parser.Run(global, cli)
	errors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
}
