package main

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/agext/levenshtein"
	"github.com/nimbusdeploy/nimbus/internal/file"
	"github.com/nimbusdeploy/nimbus/sdk/core"
	"github.com/nimbusdeploy/nimbus/sdk/meta"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"github.com/xeipuuv/gojsonschema"
)

// projectConfigFile is the name of the per-project configuration file that
// templates are expected to include.
const projectConfigFile = "nimbus.json"

// projectConfigSchema is the schema that a scaffolded project's configuration
// file must conform to. The API server applies the same schema when a project
// is deployed.
const projectConfigSchema = `
{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "ProjectConfig",
	"type": "object",
	"required": ["name"],
	"additionalProperties": false,
	"properties": {
		"name": {
			"type": "string",
			"pattern": "^[a-z0-9]+(?:-[a-z0-9]+)*$"
		},
		"description": {
			"type": "string"
		},
		"framework": {
			"type": "string"
		},
		"buildCommand": {
			"type": "string"
		},
		"outputDirectory": {
			"type": "string"
		},
		"env": {
			"type": "object",
			"additionalProperties": {
				"type": "string"
			}
		}
	}
}`

var initCommand = &cli.Command{
	Name:      "init",
	Usage:     "Scaffold a new project from a starter template",
	ArgsUsage: "[TEMPLATE] [DIRECTORY]",
	Description: "With no arguments, presents a list of available templates " +
		"to choose from. The directory defaults to the template's name.",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    flagForce,
			Aliases: []string{"f"},
			Usage: "Write into an existing, non-empty directory without " +
				"confirmation",
		},
	},
	Action: initProject,
}

func initProject(c *cli.Context) error {
	if c.Args().Len() > 2 {
		return errors.New(
			"init accepts at most two arguments-- a template name and a " +
				"directory",
		)
	}

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting nimbus client")
	}

	templates, err := client.Templates().List(c.Context)
	if err != nil {
		return err
	}
	if len(templates.Items) == 0 {
		return errors.New("no templates are currently available")
	}

	name := c.Args().Get(0)
	if name == "" {
		options := make([]string, len(templates.Items))
		for i, template := range templates.Items {
			options[i] = template.Name
		}
		if err := survey.AskOne(
			&survey.Select{
				Message: "Select a template",
				Options: options,
			},
			&name,
		); err != nil {
			return errors.Wrap(err, "error selecting a template")
		}
		fmt.Println()
	} else if !templateExists(name, templates.Items) {
		if suggestion := closestTemplate(name, templates.Items); suggestion != "" {
			return errors.Errorf(
				"no template named %q exists; did you mean %q?",
				name,
				suggestion,
			)
		}
		return errors.Errorf("no template named %q exists", name)
	}

	dir := c.Args().Get(1)
	if dir == "" {
		dir = name
	}

	if nonEmptyDir(dir) && !c.Bool(flagForce) {
		var confirmed bool
		if err := survey.AskOne(
			&survey.Confirm{
				Message: fmt.Sprintf(
					"Directory %q already exists and is not empty. Continue?",
					dir,
				),
			},
			&confirmed,
		); err != nil {
			return errors.Wrap(err, "error confirming init")
		}
		fmt.Println()
		if !confirmed {
			return errors.New("Canceled")
		}
	}

	archive, err := client.Templates().DownloadArchive(c.Context, name)
	if err != nil {
		return err
	}
	defer archive.Close()

	if err := extractArchive(archive, dir); err != nil {
		return errors.Wrapf(err, "error extracting template %q", name)
	}

	configFile := filepath.Join(dir, projectConfigFile)
	if file.Exists(configFile) {
		if err := validateProjectConfig(configFile); err != nil {
			return err
		}
	} else {
		fmt.Printf(
			"The template does not include a %s file; one will need to be "+
				"created before the project can be deployed.\n\n",
			projectConfigFile,
		)
	}

	fmt.Printf("Initialized template %q in %s.\n", name, dir)

	return nil
}

func templateExists(name string, templates []core.Template) bool {
	for _, template := range templates {
		if template.Name == name {
			return true
		}
	}
	return false
}

// closestTemplate returns the name of the template nearest the requested
// name, provided one is within a small edit distance, and an empty string
// otherwise.
func closestTemplate(name string, templates []core.Template) string {
	closest := ""
	closestDistance := 4
	for _, template := range templates {
		distance := levenshtein.Distance(name, template.Name, nil)
		if distance < closestDistance {
			closest = template.Name
			closestDistance = distance
		}
	}
	return closest
}

func nonEmptyDir(dir string) bool {
	entries, err := ioutil.ReadDir(dir)
	return err == nil && len(entries) > 0
}

// extractArchive unpacks a gzipped tarball into the specified directory,
// refusing any entry that would land outside of it.
func extractArchive(r io.Reader, dir string) error {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return errors.Wrap(err, "error reading archive")
	}
	defer gzipReader.Close()
	tarReader := tar.NewReader(gzipReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "error reading archive")
		}
		target, err := securePath(dir, header.Name)
		if err != nil {
			return err
		}
		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return errors.Wrapf(err, "error creating directory %s", target)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return errors.Wrapf(
					err,
					"error creating directory %s",
					filepath.Dir(target),
				)
			}
			f, err := os.OpenFile(
				target,
				os.O_CREATE|os.O_WRONLY|os.O_TRUNC,
				os.FileMode(header.Mode),
			)
			if err != nil {
				return errors.Wrapf(err, "error creating file %s", target)
			}
			if _, err := io.Copy(f, tarReader); err != nil {
				f.Close()
				return errors.Wrapf(err, "error writing file %s", target)
			}
			f.Close()
		}
	}
	return nil
}

func securePath(dir, name string) (string, error) {
	target := filepath.Join(dir, name)
	rel, err := filepath.Rel(dir, target)
	if err != nil ||
		rel == ".." ||
		strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", errors.Errorf(
			"archive entry %q escapes the target directory",
			name,
		)
	}
	return target, nil
}

func validateProjectConfig(path string) error {
	configBytes, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "error reading %s", path)
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(projectConfigSchema),
		gojsonschema.NewBytesLoader(configBytes),
	)
	if err != nil {
		return errors.Wrapf(err, "error validating %s", path)
	}
	if !result.Valid() {
		details := make([]string, len(result.Errors()))
		for i, resultErr := range result.Errors() {
			details[i] = resultErr.String()
		}
		return &meta.ErrBadRequest{
			Reason: fmt.Sprintf(
				"%s is not a valid project configuration",
				path,
			),
			Details: details,
		}
	}
	return nil
}
