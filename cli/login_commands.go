package main

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/nimbusdeploy/nimbus/sdk/core"
	"github.com/nimbusdeploy/nimbus/sdk/meta"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var loginCommand = &cli.Command{
	Name:  "login",
	Usage: "Log in to Nimbus",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    flagServer,
			Aliases: []string{"s"},
			Usage: "Log into the API server at the specified address " +
				"(required)",
			Required: true,
		},
		&cli.StringFlag{
			Name:    flagToken,
			Aliases: []string{"t"},
			Usage:   "Specify the API token non-interactively",
		},
	},
	Action: login,
}

var logoutCommand = &cli.Command{
	Name:   "logout",
	Usage:  "Log out of Nimbus",
	Action: logout,
}

func login(c *cli.Context) error {
	address := c.String(flagServer)
	token := c.String(flagToken)

	for token == "" {
		prompt := &survey.Password{
			Message: "API token",
		}
		if err := survey.AskOne(prompt, &token); err != nil {
			return errors.Wrap(err, "error reading API token")
		}
	}

	// Make a cheap authenticated call to catch a bad address or token before
	// persisting anything.
	client := core.NewAPIClient(address, token, c.Bool(flagInsecure))
	if _, err := client.Projects().List(
		c.Context,
		meta.ListOptions{Limit: 1},
	); err != nil {
		return errors.Wrap(err, "error verifying credentials")
	}

	if err := saveConfig(
		&config{
			APIAddress: address,
			APIToken:   token,
		},
	); err != nil {
		return errors.Wrap(err, "error persisting configuration")
	}

	fmt.Println("You are now logged in.")

	return nil
}

func logout(c *cli.Context) error {
	if err := deleteConfig(); err != nil {
		return errors.Wrap(err, "error deleting configuration")
	}

	fmt.Println("You are now logged out.")

	return nil
}
