package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/scripturekit/bibles/internal/cmd/base"
	"github.com/scripturekit/bibles/internal/cmd/commands/operator"
	"github.com/scripturekit/bibles/internal/cmd/commands/serve"
	"github.com/scripturekit/bibles/internal/cmd/commands/version"
)

// Commands is the mapping of all available bibles commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := base.NewCommand(log, ui)

	Commands = map[string]cli.CommandFactory{
		"serve": func() (cli.Command, error) {
			return &serve.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
		"operator": func() (cli.Command, error) {
			return &operator.Command{Command: b}, nil
		},
		"operator check-db": func() (cli.Command, error) {
			return &operator.CheckDBCommand{Command: b}, nil
		},
	}
}
