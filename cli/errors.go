package main

import (
	"fmt"
	"io"

	"github.com/galaxykit/galaxykit"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	exitOK           = 0
	exitUnknownError = 1
	exitNotFound     = 2
	exitDuplicate    = 4
)

type errDuplicate struct {
	Type string
	Name string
}

func (e *errDuplicate) Error() string {
	return fmt.Sprintf("%s %q already exists.", e.Type, e.Name)
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	switch errors.Cause(err).(type) {
	case *galaxykit.ErrNotFound:
		return exitNotFound
	case *errDuplicate:
		return exitDuplicate
	default:
		return exitUnknownError
	}
}

// ignorable swallows not found and duplicate conditions when --ignore is set.
func ignorable(c *cli.Context, err error) error {
	if err == nil || !c.Bool(flagIgnore) {
		return err
	}
	switch exitCode(err) {
	case exitNotFound, exitDuplicate:
		fmt.Fprintln(c.App.Writer, errors.Cause(err))
		return nil
	}
	return err
}

func reportError(w io.Writer, err error) {
	if remoteErr, ok := errors.Cause(err).(*galaxykit.ErrRemote); ok {
		for _, e := range remoteErr.Errors {
			fmt.Fprintf(
				w,
				"API Failure: HTTP %s %s; %s (%s)\n",
				e.Status,
				e.Code,
				e.Title,
				e.Detail,
			)
		}
		return
	}
	fmt.Fprintf(w, "%s\n", err)
}
