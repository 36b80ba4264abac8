package main

import (
	"fmt"
	"os"

	"github.com/nimbusdeploy/nimbus/internal/signals"
	"github.com/nimbusdeploy/nimbus/internal/version"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Name = "nimbus"
	app.Usage = "Deploy and manage projects on the Nimbus platform"
	app.Version = fmt.Sprintf(
		"%s -- commit %s",
		version.Version(),
		version.Commit(),
	)
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    flagInsecure,
			Aliases: []string{"k"},
			Usage:   "Allow insecure API server connections when using TLS",
		},
	}
	app.Commands = []*cli.Command{
		deploymentCommand,
		initCommand,
		loginCommand,
		logoutCommand,
		projectCommand,
		removeCommand,
	}
	fmt.Println()
	if err := app.RunContext(signals.Context(), os.Args); err != nil {
		fmt.Printf("\n%s\n\n", err)
		os.Exit(1)
	}
	fmt.Println()
}
