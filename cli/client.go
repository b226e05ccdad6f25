package main

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/galaxykit/galaxykit"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

// newContainerEngine, when set, replaces the engine session the client
// starts.
var newContainerEngine galaxykit.ContainerEngineFactory

// settings are the effective connection parameters of one invocation.
type settings struct {
	env               environment
	server            string
	username          string
	password          string
	token             string
	allowInsecure     bool
	containerEngine   string
	containerRegistry string
}

func getSettings(c *cli.Context) (settings, error) {
	env, err := getEnvironment()
	if err != nil {
		return settings{}, err
	}
	cfg, err := getConfig(env)
	if err != nil {
		return settings{}, errors.Wrap(err, "error retrieving configuration")
	}
	if cfg == nil {
		cfg = &config{}
	}
	s := settings{
		env:      env,
		server:   firstNonEmpty(c.String(flagServer), env.Server, cfg.Server),
		username: firstNonEmpty(c.String(flagUsername), env.Username),
		password: firstNonEmpty(c.String(flagPassword), env.Password),
		containerEngine: firstNonEmpty(
			c.String(flagContainerEngine),
			env.ContainerEngine,
		),
		containerRegistry: firstNonEmpty(
			c.String(flagContainerRegistry),
			env.ContainerRegistry,
		),
		allowInsecure: c.Bool(flagIgnoreCerts),
	}
	if s.server == "" {
		s.server = defaultServer
	}
	// A saved token is only good for the server it was issued by.
	if s.username == "" && cfg.Server == s.server {
		s.token = cfg.Token
	}
	return s, nil
}

func getClient(c *cli.Context) (galaxykit.Client, error) {
	s, err := getSettings(c)
	if err != nil {
		return nil, err
	}
	return s.client(c)
}

func (s settings) client(c *cli.Context) (galaxykit.Client, error) {
	if s.username != "" && s.password == "" {
		var err error
		if s.password, err = promptPassword(s.username); err != nil {
			return nil, err
		}
	}
	client, err := galaxykit.NewClient(
		c.Context,
		s.server,
		&galaxykit.ClientOptions{
			Username:               s.username,
			Password:               s.password,
			Token:                  s.token,
			AllowInsecure:          s.allowInsecure,
			ContainerEngine:        s.containerEngine,
			ContainerRegistry:      s.containerRegistry,
			ContainerEngineFactory: newContainerEngine,
		},
	)
	if err != nil {
		return nil, errors.Wrap(err, "error getting galaxykit client")
	}
	return client, nil
}

func promptPassword(username string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.Errorf("no password specified for user %q", username)
	}
	var password string
	if err := survey.AskOne(
		&survey.Password{
			Message: fmt.Sprintf("Password for %s?", username),
		},
		&password,
	); err != nil {
		return "", errors.Wrap(err, "error reading password")
	}
	return password, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
