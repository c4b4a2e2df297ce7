package version

import (
	"github.com/scripturekit/bibles/internal/cmd/base"
	"github.com/scripturekit/bibles/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version of the binary"
}

func (c *Command) Help() string {
	return `Usage: bibles version

  This command prints the version of the binary.`
}

func (c *Command) Run(args []string) int {
	c.UI.Output(version.Version)
	return 0
}
