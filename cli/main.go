package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/galaxykit/galaxykit/internal/signals"
	"github.com/galaxykit/galaxykit/internal/version"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := configureLogging(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(exitUnknownError)
	}
	code := run(signals.Context(), os.Args, os.Stdout, os.Stderr)
	glog.Flush()
	os.Exit(code)
}

// configureLogging points glog at stderr. glog writes to files by default and
// warns on every call until the flag set has been parsed.
func configureLogging() error {
	if err := flag.Set("logtostderr", "true"); err != nil {
		return errors.Wrap(err, "error configuring logging")
	}
	if flag.Parsed() {
		return nil
	}
	return errors.Wrap(
		flag.CommandLine.Parse(nil),
		"error parsing logging flags",
	)
}

func newApp(stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "galaxykit"
	app.Usage = "Manage users, groups and container images on a Galaxy server"
	app.Version = fmt.Sprintf(
		"%s -- commit %s",
		version.Version(),
		version.Commit(),
	)
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = globalFlags
	app.Before = func(c *cli.Context) error {
		return flag.Set("v", strconv.Itoa(c.Int(flagVerbosity)))
	}
	app.Commands = []*cli.Command{
		containerCommand,
		groupCommand,
		loginCommand,
		logoutCommand,
		userCommand,
	}
	return app
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if err := newApp(stdout, stderr).RunContext(ctx, args); err != nil {
		reportError(stderr, err)
		return exitCode(err)
	}
	return exitOK
}
