package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/ghodss/yaml"
	"github.com/gosuri/uitable"
	"github.com/nimbusdeploy/nimbus/sdk/meta"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/ssh/terminal"
	"k8s.io/apimachinery/pkg/util/duration"
)

var deploymentCommand = &cli.Command{
	Name:  "deployment",
	Usage: "Manage deployments",
	Subcommands: []*cli.Command{
		{
			Name:  "list",
			Usage: "Retrieve many deployments",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    flagProject,
					Aliases: []string{"p"},
					Usage: "Retrieve deployments for the specified project " +
						"(required)",
					Required: true,
				},
				cliFlagOutput,
			},
			Action: deploymentList,
		},
	},
}

func deploymentList(c *cli.Context) error {
	projectID := c.String(flagProject)
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting nimbus client")
	}

	opts := meta.ListOptions{}

	for {
		deployments, err := client.Deployments().ListByProject(
			c.Context,
			projectID,
			opts,
		)
		if err != nil {
			return err
		}

		if len(deployments.Items) == 0 {
			fmt.Println("No deployments found.")
			return nil
		}

		switch strings.ToLower(output) {
		case "table":
			table := uitable.New()
			table.AddRow("ID", "URL", "STATE", "AGE")
			for _, deployment := range deployments.Items {
				var age string
				if deployment.Created != nil {
					age = duration.ShortHumanDuration(
						time.Since(*deployment.Created),
					)
				}
				table.AddRow(
					deployment.ID,
					deployment.URL,
					deployment.State,
					age,
				)
			}
			fmt.Println(table)

		case "yaml":
			yamlBytes, err := yaml.Marshal(deployments)
			if err != nil {
				return errors.Wrap(
					err,
					"error formatting output from list deployments operation",
				)
			}
			fmt.Println(string(yamlBytes))

		case "json":
			prettyJSON, err := json.MarshalIndent(deployments, "", "  ")
			if err != nil {
				return errors.Wrap(
					err,
					"error formatting output from list deployments operation",
				)
			}
			fmt.Println(string(prettyJSON))
		}

		if deployments.RemainingItemCount < 1 || deployments.Continue == "" {
			break
		}

		// Exit after one page of output if this isn't a terminal
		if !terminal.IsTerminal(int(os.Stdout.Fd())) {
			break
		}

		var shouldContinue bool
		fmt.Println()
		if err := survey.AskOne(
			&survey.Confirm{
				Message: fmt.Sprintf(
					"%d results remain. Fetch more?",
					deployments.RemainingItemCount,
				),
			},
			&shouldContinue,
		); err != nil {
			return errors.Wrap(
				err,
				"error confirming if user wishes to continue",
			)
		}
		fmt.Println()
		if !shouldContinue {
			break
		}

		opts.Continue = deployments.Continue
	}

	return nil
}
