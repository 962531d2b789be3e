package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/pagefill/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Directory for the generated config file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path := root.Config
	if path == "" {
		path = config.DefaultPath
	}
	if i.Output != "" {
		path = filepath.Join(i.Output, config.DefaultPath)
	}
	return RunInit(g, path, i.Force)
}

// RunInit writes the example configuration to path.
func RunInit(g *Global, path string, force bool) error {
	out := stdout(g)
	_, _ = fmt.Fprintf(out, "Writing configuration to %s\n", path)
	if err := config.Init(path, force); err != nil {
		_, _ = fmt.Fprintln(out, "Initialization failed")
		return err
	}
	_, _ = fmt.Fprintln(out, "Initialized successfully")
	return nil
}
