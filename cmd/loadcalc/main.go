// Command loadcalc is the command-line front end of the container load calculator.
package main

import (
	"github.com/eugenenazirov/container-load/internal/cli"
)

var version = "dev"

func main() {
	cli.Version = version
	cli.Execute(cli.NewRootCommand())
}
