package main

import (
	"strings"

	"github.com/pkg/errors"
)

func validateOutputFormat(output string) error {
	switch strings.ToLower(output) {
	case "table":
	case "yaml":
	case "json":
	default:
		return errors.Errorf("unknown output format %q", output)
	}
	return nil
}
