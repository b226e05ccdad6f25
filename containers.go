package galaxykit

import (
	"context"
	"net"
	"net/url"
	"strconv"

	"github.com/galaxykit/galaxykit/engine"
)

const defaultRegistryPort = 5001

// ContainerEngine is the session a Client forwards image operations to.
type ContainerEngine interface {
	Pull(ctx context.Context, imageName string) error
	Tag(ctx context.Context, imageName, newTag, version string) error
	Push(ctx context.Context, imageTag string) error
}

// ContainerEngineConfig is handed to a ContainerEngineFactory when a Client
// is constructed with a container engine selected.
type ContainerEngineConfig struct {
	Engine        string
	Registry      string
	Username      string
	Password      string
	AllowInsecure bool
}

// ContainerEngineFactory starts a ContainerEngine session.
type ContainerEngineFactory func(
	context.Context,
	ContainerEngineConfig,
) (ContainerEngine, error)

// DefaultContainerRegistry derives the registry host served alongside the
// Galaxy API at galaxyRoot.
func DefaultContainerRegistry(galaxyRoot *url.URL) string {
	return net.JoinHostPort(
		galaxyRoot.Hostname(),
		strconv.Itoa(defaultRegistryPort),
	)
}

func newEngineSession(
	ctx context.Context,
	cfg ContainerEngineConfig,
) (ContainerEngine, error) {
	return engine.NewSession(
		ctx,
		engine.Credentials{
			Username: cfg.Username,
			Password: cfg.Password,
		},
		cfg.Engine,
		cfg.Registry,
		&engine.SessionOptions{
			InsecureRegistry: cfg.AllowInsecure,
		},
	)
}
