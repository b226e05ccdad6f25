package main

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/galaxykit/galaxykit/internal/file"
	"github.com/kelseyhightower/envconfig"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

const envconfigPrefix = "GALAXYKIT"

// environment holds defaults read from GALAXYKIT_* variables. Flags take
// precedence over these, and these over the saved login.
type environment struct {
	Home              string
	Server            string
	Username          string
	Password          string
	ContainerEngine   string `split_words:"true"`
	ContainerRegistry string `split_words:"true"`
}

// config is what `galaxykit login` persists.
type config struct {
	Server string `json:"server"`
	Token  string `json:"token"`
}

func getEnvironment() (environment, error) {
	env := environment{}
	if err := envconfig.Process(envconfigPrefix, &env); err != nil {
		return env, errors.Wrap(
			err,
			"error getting galaxykit configuration from environment",
		)
	}
	return env, nil
}

// getConfig returns the saved login, or nil if there is none.
func getConfig(env environment) (*config, error) {
	galaxykitConfigFile, err := getConfigFile(env)
	if err != nil {
		return nil, err
	}
	if !file.Exists(galaxykitConfigFile) {
		return nil, nil
	}

	configBytes, err := ioutil.ReadFile(galaxykitConfigFile)
	if err != nil {
		return nil, errors.Wrapf(
			err,
			"error reading galaxykit config file at %s",
			galaxykitConfigFile,
		)
	}

	cfg := &config{}
	if err := json.Unmarshal(configBytes, cfg); err != nil {
		return nil, errors.Wrapf(
			err,
			"error parsing galaxykit config file at %s",
			galaxykitConfigFile,
		)
	}
	return cfg, nil
}

func saveConfig(env environment, cfg *config) error {
	galaxykitHome, err := getGalaxykitHome(env)
	if err != nil {
		return err
	}
	if _, err = os.Stat(galaxykitHome); err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrapf(
				err,
				"error checking for existence of galaxykit home at %s",
				galaxykitHome,
			)
		}
		// The directory doesn't exist-- create it
		if err = os.MkdirAll(galaxykitHome, 0755); err != nil {
			return errors.Wrapf(
				err,
				"error creating galaxykit home at %s",
				galaxykitHome,
			)
		}
	}
	galaxykitConfigFile := filepath.Join(galaxykitHome, "config")

	configBytes, err := json.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "error marshaling config")
	}
	// The file holds an API token.
	if err :=
		ioutil.WriteFile(galaxykitConfigFile, configBytes, 0600); err != nil {
		return errors.Wrapf(err, "error writing to %s", galaxykitConfigFile)
	}
	return nil
}

func deleteConfig(env environment) error {
	galaxykitConfigFile, err := getConfigFile(env)
	if err != nil {
		return err
	}
	if err := os.Remove(galaxykitConfigFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "error deleting configuration")
	}
	return nil
}

func getConfigFile(env environment) (string, error) {
	galaxykitHome, err := getGalaxykitHome(env)
	if err != nil {
		return "", err
	}
	return filepath.Join(galaxykitHome, "config"), nil
}

func getGalaxykitHome(env environment) (string, error) {
	if env.Home != "" {
		return env.Home, nil
	}
	homeDir, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "error locating user's home directory")
	}
	return filepath.Join(homeDir, ".galaxykit"), nil
}
