package main

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path"

	"github.com/kelseyhightower/envconfig"
	"github.com/mitchellh/go-homedir"
	"github.com/nimbusdeploy/nimbus/internal/file"
	"github.com/pkg/errors"
)

type config struct {
	APIAddress string `json:"apiAddress" envconfig:"API_ADDRESS"`
	APIToken   string `json:"apiToken" envconfig:"API_TOKEN"`
	// Insecure permits connections to an API server whose TLS certificate
	// cannot be verified. It is never persisted by login; it exists so the
	// environment can supply what the --insecure flag otherwise would.
	Insecure bool `json:"-" envconfig:"INSECURE"`
}

// getConfig loads configuration from the config file in the nimbus home
// directory, then applies any NIMBUS_* environment variable overrides. The
// config file is permitted to not exist as long as the environment supplies a
// complete configuration.
func getConfig() (*config, error) {
	nimbusHome, err := getNimbusHome()
	if err != nil {
		return nil, errors.Wrapf(err, "error finding nimbus home")
	}
	config := &config{}
	nimbusConfigFile := path.Join(nimbusHome, "config")
	if file.Exists(nimbusConfigFile) {
		configBytes, err := ioutil.ReadFile(nimbusConfigFile)
		if err != nil {
			return nil, errors.Wrapf(
				err,
				"error reading nimbus config file at %s",
				nimbusConfigFile,
			)
		}
		if err := json.Unmarshal(configBytes, config); err != nil {
			return nil, errors.Wrapf(
				err,
				"error parsing nimbus config file at %s",
				nimbusConfigFile,
			)
		}
	}
	if err := envconfig.Process("nimbus", config); err != nil {
		return nil, errors.Wrap(
			err,
			"error processing environment variable overrides",
		)
	}
	if config.APIAddress == "" {
		return nil, errors.Errorf(
			"no nimbus configuration was found at %s; please use "+
				"`nimbus login` to continue",
			nimbusConfigFile,
		)
	}
	return config, nil
}

func saveConfig(config *config) error {
	nimbusHome, err := getNimbusHome()
	if err != nil {
		return errors.Wrapf(err, "error finding nimbus home")
	}
	if _, err = os.Stat(nimbusHome); err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrapf(
				err,
				"error checking for existence of nimbus home at %s",
				nimbusHome,
			)
		}
		// The directory doesn't exist-- create it
		if err = os.MkdirAll(nimbusHome, 0755); err != nil {
			return errors.Wrapf(
				err,
				"error creating nimbus home at %s",
				nimbusHome,
			)
		}
	}
	nimbusConfigFile := path.Join(nimbusHome, "config")

	configBytes, err := json.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "error marshaling config")
	}
	if err :=
		ioutil.WriteFile(nimbusConfigFile, configBytes, 0600); err != nil {
		return errors.Wrapf(err, "error writing to %s", nimbusConfigFile)
	}
	return nil
}

func deleteConfig() error {
	nimbusHome, err := getNimbusHome()
	if err != nil {
		return errors.Wrapf(err, "error finding nimbus home")
	}
	nimbusConfigFile := path.Join(nimbusHome, "config")

	if err := os.Remove(nimbusConfigFile); err != nil {
		return errors.Wrap(err, "error deleting configuration")
	}

	return nil
}

func getNimbusHome() (string, error) {
	homeDir, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "error locating user's home directory")
	}

	return path.Join(homeDir, ".nimbus"), nil
}
