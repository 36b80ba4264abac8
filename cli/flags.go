package main

import "github.com/urfave/cli/v2"

const (
	flagForce    = "force"
	flagHard     = "hard"
	flagInsecure = "insecure"
	flagOutput   = "output"
	flagProject  = "project"
	flagSafe     = "safe"
	flagServer   = "server"
	flagToken    = "token"
	flagYes      = "yes"
)

var (
	cliFlagOutput = &cli.StringFlag{
		Name:    flagOutput,
		Aliases: []string{"o"},
		Usage: "Return output in the specified format; supported formats: table, " +
			"yaml, json",
		Value: "table",
	}
)
