package main

import (
	"fmt"
	"strings"

	"github.com/galaxykit/galaxykit"
	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var userCommand = &cli.Command{
	Name:  "user",
	Usage: "Manage users",
	Subcommands: []*cli.Command{
		{
			Name:      "create",
			Usage:     "Create a user unless it already exists",
			ArgsUsage: "USERNAME PASSWORD [GROUP]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  flagFirstName,
					Usage: "The user's first name",
				},
				&cli.StringFlag{
					Name:  flagLastName,
					Usage: "The user's last name",
				},
				&cli.StringFlag{
					Name:  flagEmail,
					Usage: "The user's email address",
				},
				&cli.BoolFlag{
					Name:  flagSuperuser,
					Usage: "Grant the user superuser status",
				},
			},
			Action: userCreate,
		},
		{
			Name:      "delete",
			Usage:     "Delete a user",
			ArgsUsage: "USERNAME",
			Action:    userDelete,
		},
		{
			Name:  "list",
			Usage: "Retrieve all users",
			Flags: []cli.Flag{
				cliFlagOutput,
			},
			Action: userList,
		},
	},
}

func userCreate(c *cli.Context) error {
	if c.NArg() < 2 || c.NArg() > 3 {
		return errors.New("user create requires USERNAME PASSWORD [GROUP]")
	}
	newUser := galaxykit.NewUser{
		Username:  c.Args().Get(0),
		Password:  c.Args().Get(1),
		Group:     c.Args().Get(2),
		FirstName: c.String(flagFirstName),
		LastName:  c.String(flagLastName),
		Email:     c.String(flagEmail),
		Superuser: c.Bool(flagSuperuser),
	}

	client, err := getClient(c)
	if err != nil {
		return err
	}

	created, _, err := client.GetOrCreateUser(c.Context, newUser)
	if err != nil {
		return ignorable(c, err)
	}
	if !created {
		return ignorable(c, &errDuplicate{Type: "User", Name: newUser.Username})
	}

	fmt.Fprintf(c.App.Writer, "User %q created.\n", newUser.Username)
	return nil
}

func userDelete(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("user delete requires USERNAME")
	}
	username := c.Args().First()

	client, err := getClient(c)
	if err != nil {
		return err
	}

	if err := client.DeleteUser(c.Context, username); err != nil {
		return ignorable(c, err)
	}

	fmt.Fprintf(c.App.Writer, "User %q deleted.\n", username)
	return nil
}

func userList(c *cli.Context) error {
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	client, err := getClient(c)
	if err != nil {
		return err
	}

	users, err := client.GetUserList(c.Context)
	if err != nil {
		return err
	}

	if printed, err := printStructured(
		c.App.Writer,
		output,
		users,
		"list users",
	); printed || err != nil {
		return err
	}

	if len(users) == 0 {
		fmt.Fprintln(c.App.Writer, "No users found.")
		return nil
	}

	table := uitable.New()
	table.AddRow("ID", "USERNAME", "NAME", "EMAIL", "SUPERUSER", "GROUPS")
	for _, user := range users {
		groups := make([]string, len(user.Groups))
		for i, group := range user.Groups {
			groups[i] = group.Name
		}
		table.AddRow(
			user.ID,
			user.Username,
			strings.TrimSpace(user.FirstName+" "+user.LastName),
			user.Email,
			user.IsSuperuser,
			strings.Join(groups, ","),
		)
	}
	fmt.Fprintln(c.App.Writer, table)
	return nil
}
