package main

import (
	"github.com/nimbusdeploy/nimbus/sdk/core"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func getClient(c *cli.Context) (core.APIClient, error) {
	config, err := getConfig()
	if err != nil {
		return nil, errors.Wrapf(err, "error retrieving configuration")
	}
	return core.NewAPIClient(
		config.APIAddress,
		config.APIToken,
		c.Bool(flagInsecure) || config.Insecure,
	), nil
}
