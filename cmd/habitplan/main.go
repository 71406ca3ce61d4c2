// Command habitplan turns seven-habit coaching replies into a todo list.
package main

import (
	"os"

	"github.com/custodia-labs/habitplan/internal/adapters/driving/cli"
	"github.com/custodia-labs/habitplan/internal/app"
)

// version is set at build time via -ldflags "-X main.version=...".
var version string

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(app.Bootstrap)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
