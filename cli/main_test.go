package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"strings"
	"testing"

	"github.com/galaxykit/galaxykit"
	"github.com/galaxykit/galaxykit/internal/galaxytest"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func isolateEnvironment(t *testing.T) string {
	home := t.TempDir()
	t.Setenv("GALAXYKIT_HOME", home)
	for _, name := range []string{
		"GALAXYKIT_SERVER",
		"GALAXYKIT_USERNAME",
		"GALAXYKIT_PASSWORD",
		"GALAXYKIT_CONTAINER_ENGINE",
		"GALAXYKIT_CONTAINER_REGISTRY",
	} {
		t.Setenv(name, "")
	}
	return home
}

func newTestServer(t *testing.T) *galaxytest.Server {
	isolateEnvironment(t)
	server := galaxytest.NewServer(
		&galaxytest.Options{Accounts: map[string]string{"admin": "admin"}},
	)
	t.Cleanup(server.Close)
	return server
}

func runCLI(args ...string) result {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := run(
		context.Background(),
		append([]string{"galaxykit"}, args...),
		stdout,
		stderr,
	)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func adminArgs(server *galaxytest.Server, args ...string) []string {
	return append(
		[]string{"-s", server.Root(), "-u", "admin", "-p", "admin"},
		args...,
	)
}

func TestUserCreate(t *testing.T) {
	server := newTestServer(t)
	server.AddGroup("ops")

	res := runCLI(
		adminArgs(
			server,
			"user", "create", "--email", "jdoe@example.com", "jdoe", "pw", "ops",
		)...,
	)
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Equal(t, "User \"jdoe\" created.\n", res.stdout)
	require.True(t, server.HasUser("jdoe"))
	require.Equal(t, []string{"ops"}, server.UserGroups("jdoe"))
}

func TestUserCreateDuplicate(t *testing.T) {
	server := newTestServer(t)
	server.AddUser("jdoe", "pw")

	res := runCLI(adminArgs(server, "user", "create", "jdoe", "pw")...)
	require.Equal(t, exitDuplicate, res.code)
	require.Equal(t, "User \"jdoe\" already exists.\n", res.stderr)

	res = runCLI(
		append([]string{"--ignore"}, adminArgs(server, "user", "create", "jdoe", "pw")...)...,
	)
	require.Equal(t, exitOK, res.code)
	require.Equal(t, "User \"jdoe\" already exists.\n", res.stdout)
}

func TestUserCreateUnknownGroup(t *testing.T) {
	server := newTestServer(t)
	res := runCLI(adminArgs(server, "user", "create", "jdoe", "pw", "nope")...)
	require.Equal(t, exitNotFound, res.code)
	require.False(t, server.HasUser("jdoe"))
}

func TestUserCreateUsage(t *testing.T) {
	server := newTestServer(t)
	res := runCLI(adminArgs(server, "user", "create", "jdoe")...)
	require.Equal(t, exitUnknownError, res.code)
	require.Contains(t, res.stderr, "USERNAME PASSWORD")
}

func TestUserDelete(t *testing.T) {
	server := newTestServer(t)
	server.AddUser("jdoe", "pw")

	res := runCLI(adminArgs(server, "user", "delete", "jdoe")...)
	require.Equal(t, exitOK, res.code, res.stderr)
	require.False(t, server.HasUser("jdoe"))

	res = runCLI(adminArgs(server, "user", "delete", "jdoe")...)
	require.Equal(t, exitNotFound, res.code)
	require.Equal(t, "User \"jdoe\" not found.\n", res.stderr)

	res = runCLI(append([]string{"-i"}, adminArgs(server, "user", "delete", "jdoe")...)...)
	require.Equal(t, exitOK, res.code)
}

func TestUserList(t *testing.T) {
	server := newTestServer(t)
	server.AddGroup("ops")
	server.AddUser("jdoe", "pw", "ops")

	res := runCLI(adminArgs(server, "user", "list")...)
	require.Equal(t, exitOK, res.code, res.stderr)
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "USERNAME")
	require.Contains(t, res.stdout, "jdoe")
	require.Contains(t, res.stdout, "ops")

	res = runCLI(adminArgs(server, "user", "list", "-o", "json")...)
	require.Equal(t, exitOK, res.code, res.stderr)
	users := []galaxykit.User{}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &users))
	require.Len(t, users, 2)

	res = runCLI(adminArgs(server, "user", "list", "-o", "yaml")...)
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Contains(t, res.stdout, "username: jdoe")

	res = runCLI(adminArgs(server, "user", "list", "-o", "xml")...)
	require.Equal(t, exitUnknownError, res.code)
	require.Contains(t, res.stderr, "unknown output format")
}

func TestGroupCommands(t *testing.T) {
	server := newTestServer(t)

	res := runCLI(adminArgs(server, "group", "create", "ops")...)
	require.Equal(t, exitOK, res.code, res.stderr)
	require.True(t, server.HasGroup("ops"))

	res = runCLI(adminArgs(server, "group", "create", "ops")...)
	require.Equal(t, exitDuplicate, res.code)

	res = runCLI(adminArgs(server, "group", "get", "-o", "json", "ops")...)
	require.Equal(t, exitOK, res.code, res.stderr)
	group := galaxykit.Group{}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &group))
	require.Equal(t, "ops", group.Name)

	res = runCLI(
		adminArgs(
			server,
			"group", "perm", "set", "ops",
			"galaxy.add_user", "galaxy.change_user", "galaxy.add_user",
		)...,
	)
	require.Equal(t, exitOK, res.code, res.stderr)
	require.ElementsMatch(
		t,
		[]string{"galaxy.add_user", "galaxy.change_user"},
		server.Permissions("ops"),
	)

	res = runCLI(adminArgs(server, "group", "delete", "ops")...)
	require.Equal(t, exitOK, res.code, res.stderr)
	require.False(t, server.HasGroup("ops"))

	res = runCLI(adminArgs(server, "group", "get", "ops")...)
	require.Equal(t, exitNotFound, res.code)
	res = runCLI(adminArgs(server, "group", "delete", "ops")...)
	require.Equal(t, exitNotFound, res.code)
}

func TestRemoteErrorReport(t *testing.T) {
	server := newTestServer(t)
	res := runCLI("-s", server.Root(), "-u", "admin", "-p", "wrong", "user", "list")
	require.Equal(t, exitUnknownError, res.code)
	require.True(
		t,
		strings.HasPrefix(res.stderr, "API Failure: HTTP 401 authentication_failed;"),
		res.stderr,
	)
}

func TestLoginLogout(t *testing.T) {
	server := newTestServer(t)

	res := runCLI("-s", server.Root(), "login")
	require.Equal(t, exitUnknownError, res.code)

	res = runCLI(adminArgs(server, "login")...)
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Equal(
		t,
		fmt.Sprintf("Logged in to %s as admin.\n", server.Root()),
		res.stdout,
	)

	// The saved token stands in for credentials.
	res = runCLI("-s", server.Root(), "group", "create", "ops")
	require.Equal(t, exitOK, res.code, res.stderr)
	last, ok := server.LastRequest()
	require.True(t, ok)
	require.True(t, strings.HasPrefix(last.Header.Get("Authorization"), "Token "))

	res = runCLI("logout")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Equal(t, "Logged out.\n", res.stdout)

	res = runCLI("-s", server.Root(), "group", "create", "sre")
	require.Equal(t, exitUnknownError, res.code)
	require.Contains(t, res.stderr, "not_authenticated")
}

type recordingEngine struct {
	cfg   galaxykit.ContainerEngineConfig
	calls []string
}

func (r *recordingEngine) Pull(_ context.Context, imageName string) error {
	r.calls = append(r.calls, "pull "+imageName)
	return nil
}

func (r *recordingEngine) Tag(
	_ context.Context,
	imageName string,
	newTag string,
	version string,
) error {
	r.calls = append(r.calls, fmt.Sprintf("tag %s %s %s", imageName, newTag, version))
	return nil
}

func (r *recordingEngine) Push(_ context.Context, imageTag string) error {
	r.calls = append(r.calls, "push "+imageTag)
	return nil
}

func TestContainerCommands(t *testing.T) {
	server := newTestServer(t)
	engine := &recordingEngine{}
	newContainerEngine = func(
		_ context.Context,
		cfg galaxykit.ContainerEngineConfig,
	) (galaxykit.ContainerEngine, error) {
		engine.cfg = cfg
		return engine, nil
	}
	t.Cleanup(func() { newContainerEngine = nil })

	engineArgs := func(args ...string) []string {
		return append(
			[]string{
				"--container-engine", "podman",
				"--container-registry", "registry.example:5001",
			},
			adminArgs(server, args...)...,
		)
	}

	res := runCLI(engineArgs("container", "pull", "alpine")...)
	require.Equal(t, exitOK, res.code, res.stderr)
	res = runCLI(engineArgs("container", "tag", "alpine", "ns/alpine", "1.0")...)
	require.Equal(t, exitOK, res.code, res.stderr)
	res = runCLI(engineArgs("container", "push", "ns/alpine:1.0")...)
	require.Equal(t, exitOK, res.code, res.stderr)

	require.Equal(
		t,
		[]string{"pull alpine", "tag alpine ns/alpine 1.0", "push ns/alpine:1.0"},
		engine.calls,
	)
	require.Equal(
		t,
		galaxykit.ContainerEngineConfig{
			Engine:   "podman",
			Registry: "registry.example:5001",
			Username: "admin",
			Password: "admin",
		},
		engine.cfg,
	)
}

func TestContainerCommandsWithoutEngine(t *testing.T) {
	server := newTestServer(t)
	res := runCLI(adminArgs(server, "container", "pull", "alpine")...)
	require.Equal(t, exitUnknownError, res.code)
	require.Contains(t, res.stderr, "no container engine configured")
}

func TestConfigureLogging(t *testing.T) {
	require.NoError(t, configureLogging())
	require.True(t, flag.Parsed())
	require.Equal(t, "true", flag.Lookup("logtostderr").Value.String())
}

func TestUserCreateAlongsideSimilarName(t *testing.T) {
	server := newTestServer(t)
	server.AddUser("jdoe2", "pw")

	res := runCLI(adminArgs(server, "user", "create", "jdoe", "pw")...)
	require.Equal(t, exitOK, res.code, res.stderr)
	require.Equal(t, "User \"jdoe\" created.\n", res.stdout)
	require.True(t, server.HasUser("jdoe"))
}
