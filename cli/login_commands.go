package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var loginCommand = &cli.Command{
	Name:  "login",
	Usage: "Exchange credentials for an API token and remember it",
	Description: "Subsequent commands against the same server use the saved " +
		"token unless --username is given.",
	Action: login,
}

var logoutCommand = &cli.Command{
	Name:   "logout",
	Usage:  "Forget the saved API token",
	Action: logout,
}

func login(c *cli.Context) error {
	s, err := getSettings(c)
	if err != nil {
		return err
	}
	if s.username == "" {
		return errors.New("a username is required to log in; use --username")
	}
	client, err := s.client(c)
	if err != nil {
		return err
	}
	if err := saveConfig(
		s.env,
		&config{
			Server: s.server,
			Token:  client.Token(),
		},
	); err != nil {
		return errors.Wrap(err, "error persisting configuration")
	}
	fmt.Fprintf(c.App.Writer, "Logged in to %s as %s.\n", s.server, s.username)
	return nil
}

func logout(c *cli.Context) error {
	env, err := getEnvironment()
	if err != nil {
		return err
	}
	if err := deleteConfig(env); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "Logged out.")
	return nil
}
