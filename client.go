package galaxykit

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// Requester is the low level access to the Galaxy API that the user and
// group functions are built on.
type Requester interface {
	Get(ctx context.Context, path string) (interface{}, error)
	Post(ctx context.Context, path string, body interface{}) (interface{}, error)
	Put(ctx context.Context, path string, body interface{}) (interface{}, error)
	Delete(ctx context.Context, path string) (interface{}, error)
	Do(ctx context.Context, req OutboundRequest) (interface{}, error)
}

// Client is an authenticated context against a Galaxy API and, optionally,
// the container registry next to it.
type Client interface {
	Requester

	BaseURL() string
	Headers() map[string]string
	Token() string

	PullImage(ctx context.Context, imageName string) error
	TagImage(ctx context.Context, imageName, newTag, version string) error
	PushImage(ctx context.Context, imageTag string) error

	GetOrCreateUser(ctx context.Context, user NewUser) (bool, User, error)
	GetUserList(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, username string) error

	CreateGroup(ctx context.Context, groupName string) (Group, error)
	FindGroup(ctx context.Context, groupName string) (Group, error)
	DeleteGroup(ctx context.Context, groupName string) error
	SetPermissions(
		ctx context.Context,
		groupName string,
		permissions []string,
	) error
}

// ClientOptions configures NewClient. The zero value yields an
// unauthenticated client without a container engine.
type ClientOptions struct {
	// Username and Password, when Username is set, are exchanged for an API
	// token during construction.
	Username string
	Password string
	// Token is used as-is when no Username is given.
	Token string
	// AllowInsecure skips TLS verification for the API and the registry.
	AllowInsecure bool
	// ContainerEngine selects "docker" or "podman". Empty means no engine.
	ContainerEngine string
	// ContainerRegistry defaults to the API host on port 5001.
	ContainerRegistry string
	// ContainerEngineFactory defaults to a session driving the engine's CLI.
	ContainerEngineFactory ContainerEngineFactory
	// HTTPClient replaces the default client built from AllowInsecure.
	HTTPClient *http.Client
}

type client struct {
	*baseClient
	containerEngine ContainerEngine
}

// NewClient returns a Client rooted at galaxyRoot, e.g.
// "http://localhost:8002/api/automation-hub/". When credentials are supplied
// they are exchanged for a token first; a token endpoint that does not answer
// with a token fails construction with *ErrAuthTokenParse.
func NewClient(
	ctx context.Context,
	galaxyRoot string,
	opts *ClientOptions,
) (Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}
	baseURL, err := url.Parse(galaxyRoot)
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing galaxy root %q", galaxyRoot)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: opts.AllowInsecure, // nolint: gosec
				},
			},
		}
	}

	b := &baseClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}

	token := opts.Token
	if opts.Username != "" {
		if token, err =
			b.exchangeToken(ctx, opts.Username, opts.Password); err != nil {
			return nil, err
		}
	}
	headers := map[string]string{
		headerAccept: mimeJSON,
	}
	if token != "" {
		headers[headerAuthorization] = tokenAuthHeader(token)
	}
	b.headers = headers
	b.token = token

	c := &client{baseClient: b}
	if opts.ContainerEngine != "" {
		registry := opts.ContainerRegistry
		if registry == "" {
			registry = DefaultContainerRegistry(baseURL)
		}
		factory := opts.ContainerEngineFactory
		if factory == nil {
			factory = newEngineSession
		}
		if c.containerEngine, err = factory(
			ctx,
			ContainerEngineConfig{
				Engine:        opts.ContainerEngine,
				Registry:      registry,
				Username:      opts.Username,
				Password:      opts.Password,
				AllowInsecure: opts.AllowInsecure,
			},
		); err != nil {
			return nil, errors.Wrap(err, "error starting container engine session")
		}
	}
	return c, nil
}

// PullImage pulls an image through the container engine.
func (c *client) PullImage(ctx context.Context, imageName string) error {
	if c.containerEngine == nil {
		return ErrNoContainerEngine
	}
	return c.containerEngine.Pull(ctx, imageName)
}

// TagImage tags a pulled image as newTag:version in the registry.
func (c *client) TagImage(
	ctx context.Context,
	imageName string,
	newTag string,
	version string,
) error {
	if c.containerEngine == nil {
		return ErrNoContainerEngine
	}
	return c.containerEngine.Tag(ctx, imageName, newTag, version)
}

// PushImage pushes a tagged image to the registry.
func (c *client) PushImage(ctx context.Context, imageTag string) error {
	if c.containerEngine == nil {
		return ErrNoContainerEngine
	}
	return c.containerEngine.Push(ctx, imageTag)
}

func (c *client) GetOrCreateUser(
	ctx context.Context,
	user NewUser,
) (bool, User, error) {
	return GetOrCreateUser(ctx, c, user)
}

func (c *client) GetUserList(ctx context.Context) ([]User, error) {
	return GetUserList(ctx, c)
}

func (c *client) DeleteUser(ctx context.Context, username string) error {
	return DeleteUser(ctx, c, username)
}

func (c *client) CreateGroup(
	ctx context.Context,
	groupName string,
) (Group, error) {
	return CreateGroup(ctx, c, groupName)
}

func (c *client) FindGroup(ctx context.Context, groupName string) (Group, error) {
	return FindGroup(ctx, c, groupName)
}

func (c *client) DeleteGroup(ctx context.Context, groupName string) error {
	return DeleteGroup(ctx, c, groupName)
}

func (c *client) SetPermissions(
	ctx context.Context,
	groupName string,
	permissions []string,
) error {
	return SetPermissions(ctx, c, groupName, permissions)
}
