package main

import (
	"fmt"

	"github.com/galaxykit/galaxykit"
	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var groupCommand = &cli.Command{
	Name:  "group",
	Usage: "Manage groups",
	Subcommands: []*cli.Command{
		{
			Name:      "create",
			Usage:     "Create a group",
			ArgsUsage: "NAME",
			Action:    groupCreate,
		},
		{
			Name:      "delete",
			Usage:     "Delete a group",
			ArgsUsage: "NAME",
			Action:    groupDelete,
		},
		{
			Name:      "get",
			Usage:     "Retrieve a group",
			ArgsUsage: "NAME",
			Flags: []cli.Flag{
				cliFlagOutput,
			},
			Action: groupGet,
		},
		{
			Name:  "perm",
			Usage: "Manage a group's model permissions",
			Subcommands: []*cli.Command{
				{
					Name:      "set",
					Usage:     "Grant permissions to a group",
					ArgsUsage: "NAME PERMISSION...",
					Action:    groupPermSet,
				},
			},
		},
	},
}

func groupCreate(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("group create requires NAME")
	}
	name := c.Args().First()

	client, err := getClient(c)
	if err != nil {
		return err
	}

	_, err = client.FindGroup(c.Context, name)
	if err == nil {
		return ignorable(c, &errDuplicate{Type: "Group", Name: name})
	}
	if _, ok := errors.Cause(err).(*galaxykit.ErrNotFound); !ok {
		return err
	}

	if _, err := client.CreateGroup(c.Context, name); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Group %q created.\n", name)
	return nil
}

func groupDelete(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("group delete requires NAME")
	}
	name := c.Args().First()

	client, err := getClient(c)
	if err != nil {
		return err
	}

	if err := client.DeleteGroup(c.Context, name); err != nil {
		return ignorable(c, err)
	}

	fmt.Fprintf(c.App.Writer, "Group %q deleted.\n", name)
	return nil
}

func groupGet(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("group get requires NAME")
	}
	name := c.Args().First()
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	client, err := getClient(c)
	if err != nil {
		return err
	}

	group, err := client.FindGroup(c.Context, name)
	if err != nil {
		return err
	}

	if printed, err := printStructured(
		c.App.Writer,
		output,
		group,
		"get group",
	); printed || err != nil {
		return err
	}

	table := uitable.New()
	table.AddRow("ID", "NAME")
	table.AddRow(group.ID, group.Name)
	fmt.Fprintln(c.App.Writer, table)
	return nil
}

func groupPermSet(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("group perm set requires NAME PERMISSION...")
	}
	name := c.Args().First()
	perms := c.Args().Tail()

	client, err := getClient(c)
	if err != nil {
		return err
	}

	if err := client.SetPermissions(c.Context, name, perms); err != nil {
		return err
	}

	fmt.Fprintf(
		c.App.Writer,
		"Granted %d permission(s) to group %q.\n",
		len(perms),
		name,
	)
	return nil
}
