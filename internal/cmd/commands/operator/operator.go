package operator

import (
	"github.com/mitchellh/cli"

	"github.com/scripturekit/bibles/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Perform operator-specific tasks"
}

func (c *Command) Help() string {
	return `Usage: bibles operator <subcommand> [options] [args]

  This command groups subcommands for operators inspecting a scripture
  database.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}
