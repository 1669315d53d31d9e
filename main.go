package main

import (
	"github.com/zaplink/zaplink/cmd"

	// Subcommands register themselves with the root command in their init().
	_ "github.com/zaplink/zaplink/cmd/cli"
	_ "github.com/zaplink/zaplink/cmd/server"
)

func main() {
	cmd.Execute()
}
