// Package engine drives a local docker or podman installation to move images
// between a Galaxy container registry and the local image store.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const (
	Docker = "docker"
	Podman = "podman"

	defaultVersion = "latest"
)

// Credentials authenticate the session against the registry.
type Credentials struct {
	Username string
	Password string
}

// Runner runs an engine command and returns its combined output.
type Runner func(
	ctx context.Context,
	stdin io.Reader,
	name string,
	args ...string,
) ([]byte, error)

// SessionOptions tune a Session. The zero value is usable.
type SessionOptions struct {
	// InsecureRegistry disables TLS verification where the engine supports a
	// per-command switch (podman).
	InsecureRegistry bool
	// Runner replaces the default, which executes the engine binary.
	Runner Runner
}

// Session is a logged-in engine bound to one registry.
type Session struct {
	engine   string
	registry string
	insecure bool
	run      Runner
}

// NewSession validates the engine selector and, when credentials carry a
// username, logs in to the registry.
func NewSession(
	ctx context.Context,
	creds Credentials,
	selector string,
	registry string,
	opts *SessionOptions,
) (*Session, error) {
	switch selector {
	case Docker, Podman:
	default:
		return nil, errors.Errorf("unsupported container engine %q", selector)
	}
	if registry == "" {
		return nil, errors.New("no container registry specified")
	}
	if opts == nil {
		opts = &SessionOptions{}
	}
	s := &Session{
		engine:   selector,
		registry: registry,
		insecure: opts.InsecureRegistry,
		run:      opts.Runner,
	}
	if s.run == nil {
		s.run = execRunner
	}
	if creds.Username != "" {
		if err := s.login(ctx, creds); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Engine returns the engine selector.
func (s *Session) Engine() string {
	return s.engine
}

// Registry returns the registry host images are tagged for and pushed to.
func (s *Session) Registry() string {
	return s.registry
}

func (s *Session) login(ctx context.Context, creds Credentials) error {
	args := []string{"login"}
	args = append(args, s.tlsArgs()...)
	args = append(
		args,
		"--username", creds.Username,
		"--password-stdin",
		s.registry,
	)
	if _, err :=
		s.run(ctx, strings.NewReader(creds.Password), s.engine, args...); err != nil {
		return errors.Wrapf(err, "error logging in to %s", s.registry)
	}
	return nil
}

// Pull pulls imageName into the local image store.
func (s *Session) Pull(ctx context.Context, imageName string) error {
	args := []string{"image", "pull"}
	args = append(args, s.tlsArgs()...)
	args = append(args, imageName)
	if _, err := s.run(ctx, nil, s.engine, args...); err != nil {
		return errors.Wrapf(err, "error pulling image %s", imageName)
	}
	return nil
}

// Tag tags imageName as <registry>/<newTag>:<version>. An empty version means
// "latest".
func (s *Session) Tag(
	ctx context.Context,
	imageName string,
	newTag string,
	version string,
) error {
	if version == "" {
		version = defaultVersion
	}
	target := fmt.Sprintf("%s/%s:%s", s.registry, newTag, version)
	if _, err :=
		s.run(ctx, nil, s.engine, "image", "tag", imageName, target); err != nil {
		return errors.Wrapf(err, "error tagging image %s as %s", imageName, target)
	}
	return nil
}

// Push pushes <registry>/<imageTag>.
func (s *Session) Push(ctx context.Context, imageTag string) error {
	target := fmt.Sprintf("%s/%s", s.registry, imageTag)
	args := []string{"image", "push"}
	args = append(args, s.tlsArgs()...)
	args = append(args, target)
	if _, err := s.run(ctx, nil, s.engine, args...); err != nil {
		return errors.Wrapf(err, "error pushing image %s", target)
	}
	return nil
}

func (s *Session) tlsArgs() []string {
	if s.engine != Podman {
		return nil
	}
	return []string{fmt.Sprintf("--tls-verify=%t", !s.insecure)}
}

func execRunner(
	ctx context.Context,
	stdin io.Reader,
	name string,
	args ...string,
) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, errors.Errorf("%s not found", name)
	}
	glog.V(2).Infof("running %s %s", name, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(output.String()); msg != "" {
			return output.Bytes(), errors.Errorf("%s %s: %s", name, args[0], msg)
		}
		return output.Bytes(), errors.Wrapf(err, "%s %s", name, args[0])
	}
	return output.Bytes(), nil
}
