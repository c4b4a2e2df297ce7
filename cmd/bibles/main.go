package main

import (
	"os"

	"github.com/scripturekit/bibles/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
