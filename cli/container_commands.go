package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var containerCommand = &cli.Command{
	Name:  "container",
	Usage: "Move images between the local container engine and the registry",
	Subcommands: []*cli.Command{
		{
			Name:      "pull",
			Usage:     "Pull an image",
			ArgsUsage: "IMAGE",
			Action:    containerPull,
		},
		{
			Name:      "tag",
			Usage:     "Tag an image for the registry",
			ArgsUsage: "IMAGE NEWTAG [VERSION]",
			Action:    containerTag,
		},
		{
			Name:      "push",
			Usage:     "Push a tagged image to the registry",
			ArgsUsage: "TAG",
			Action:    containerPush,
		},
	},
}

func containerPull(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("container pull requires IMAGE")
	}
	image := c.Args().First()

	client, err := getClient(c)
	if err != nil {
		return err
	}

	if err := client.PullImage(c.Context, image); err != nil {
		return errors.Wrapf(err, "error pulling image %q", image)
	}

	fmt.Fprintf(c.App.Writer, "Pulled %s.\n", image)
	return nil
}

func containerTag(c *cli.Context) error {
	if c.NArg() < 2 || c.NArg() > 3 {
		return errors.New("container tag requires IMAGE NEWTAG [VERSION]")
	}
	image := c.Args().Get(0)
	newTag := c.Args().Get(1)
	version := c.Args().Get(2)

	client, err := getClient(c)
	if err != nil {
		return err
	}

	if err := client.TagImage(c.Context, image, newTag, version); err != nil {
		return errors.Wrapf(err, "error tagging image %q", image)
	}

	fmt.Fprintf(c.App.Writer, "Tagged %s as %s.\n", image, newTag)
	return nil
}

func containerPush(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("container push requires TAG")
	}
	tag := c.Args().First()

	client, err := getClient(c)
	if err != nil {
		return err
	}

	if err := client.PushImage(c.Context, tag); err != nil {
		return errors.Wrapf(err, "error pushing image %q", tag)
	}

	fmt.Fprintf(c.App.Writer, "Pushed %s.\n", tag)
	return nil
}
