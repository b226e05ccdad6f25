package galaxykit

import (
	"context"
	"testing"

	"github.com/galaxykit/galaxykit/internal/galaxytest"
	"github.com/stretchr/testify/require"
)

const (
	testAdminUsername = "admin"
	testAdminPassword = "admin"
)

func newGalaxyClient(
	t *testing.T,
	opts *galaxytest.Options,
) (*galaxytest.Server, Client) {
	if opts == nil {
		opts = &galaxytest.Options{}
	}
	opts.Accounts = map[string]string{testAdminUsername: testAdminPassword}
	server := galaxytest.NewServer(opts)
	t.Cleanup(server.Close)
	client, err := NewClient(
		context.Background(),
		server.Root(),
		&ClientOptions{
			Username: testAdminUsername,
			Password: testAdminPassword,
		},
	)
	require.NoError(t, err)
	return server, client
}
