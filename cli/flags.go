package main

import "github.com/urfave/cli/v2"

const (
	flagContainerEngine   = "container-engine"
	flagContainerRegistry = "container-registry"
	flagEmail             = "email"
	flagFirstName         = "first-name"
	flagIgnore            = "ignore"
	flagIgnoreCerts       = "ignore-certs"
	flagLastName          = "last-name"
	flagOutput            = "output"
	flagPassword          = "password"
	flagServer            = "server"
	flagSuperuser         = "superuser"
	flagUsername          = "username"
	flagVerbosity         = "verbosity"
)

const defaultServer = "http://localhost:8002/api/automation-hub/"

var globalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    flagServer,
		Aliases: []string{"s"},
		Usage: "The Galaxy API root; defaults to the logged in server or " +
			defaultServer,
	},
	&cli.StringFlag{
		Name:    flagUsername,
		Aliases: []string{"u"},
		Usage:   "Authenticate as the specified user",
	},
	&cli.StringFlag{
		Name:    flagPassword,
		Aliases: []string{"p"},
		Usage:   "Password for --username; prompted for when omitted",
	},
	&cli.BoolFlag{
		Name:    flagIgnore,
		Aliases: []string{"i"},
		Usage:   "Treat not found and already exists conditions as success",
	},
	&cli.BoolFlag{
		Name:    flagIgnoreCerts,
		Aliases: []string{"c"},
		Usage:   "Ignore invalid SSL certificates",
	},
	&cli.StringFlag{
		Name:  flagContainerEngine,
		Usage: "Container engine for image operations; supported: podman, docker",
	},
	&cli.StringFlag{
		Name:  flagContainerRegistry,
		Usage: "Container registry host; defaults to the API host on port 5001",
	},
	&cli.IntFlag{
		Name:  flagVerbosity,
		Usage: "Log verbosity; 2 traces every API request",
	},
}

var (
	cliFlagOutput = &cli.StringFlag{
		Name:    flagOutput,
		Aliases: []string{"o"},
		Usage: "Return output in the specified format; supported formats: table, " +
			"yaml, json",
		Value: "table",
	}
)
