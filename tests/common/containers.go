// Package common provides the container environment shared by the
// end-to-end tests: it builds the parks-mcp image once per run and
// starts it in HTTP transport mode.
package common

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	buildOnce sync.Once
	buildErr  error
)

// ServerContainer wraps a running parks-mcp container.
type ServerContainer struct {
	container testcontainers.Container
	ctx       context.Context
	cancel    context.CancelFunc
	url       string
}

// URL returns the base URL of the running server (no trailing slash).
func (s *ServerContainer) URL() string {
	return s.url
}

// CollectLogs saves container stdout/stderr under dir/.
func (s *ServerContainer) CollectLogs(dir string) {
	if s == nil || s.container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reader, err := s.container.Logs(ctx)
	if err != nil {
		return
	}
	defer reader.Close()

	logs, err := io.ReadAll(reader)
	if err != nil {
		return
	}
	os.MkdirAll(dir, 0755)
	os.WriteFile(filepath.Join(dir, "parks-mcp.log"), logs, 0644)
}

// Cleanup tears down the container. Uses a fresh context in case the
// main context expired.
func (s *ServerContainer) Cleanup() {
	if s == nil {
		return
	}
	cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cleanupCancel()

	if s.container != nil {
		s.container.Terminate(cleanupCtx)
	}
	if s.cancel != nil {
		s.cancel()
	}
}

// buildServerImage builds the parks-mcp:test image once per test run.
func buildServerImage() error {
	buildOnce.Do(func() {
		ctx := context.Background()

		req := testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				FromDockerfile: testcontainers.FromDockerfile{
					Context:    FindProjectRoot(),
					Dockerfile: "Dockerfile",
					Repo:       "parks-mcp",
					Tag:        "test",
					KeepImage:  true,
				},
			},
		}

		provider, err := testcontainers.NewDockerProvider()
		if err != nil {
			buildErr = fmt.Errorf("create docker provider: %w", err)
			return
		}
		defer provider.Close()

		if _, err := provider.BuildImage(ctx, &req); err != nil {
			buildErr = fmt.Errorf("build parks-mcp image: %w", err)
		}
	})
	return buildErr
}

// StartServer builds the image (once) and starts a parks-mcp container
// in HTTP transport mode, waiting until /healthz answers. Skipped in
// -short mode. extraEnv overlays the default container environment.
func StartServer(t *testing.T, extraEnv map[string]string) *ServerContainer {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	if err := buildServerImage(); err != nil {
		t.Fatalf("failed to build server image: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	env := map[string]string{
		"LOG_LEVEL": "debug",
	}
	for key, value := range extraEnv {
		env[key] = value
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "parks-mcp:test",
			ExposedPorts: []string{"4280/tcp"},
			Env:          env,
			WaitingFor: wait.ForHTTP("/healthz").
				WithPort("4280/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start parks-mcp container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx)
		cancel()
		t.Fatalf("failed to resolve container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "4280/tcp")
	if err != nil {
		container.Terminate(ctx)
		cancel()
		t.Fatalf("failed to resolve mapped port: %v", err)
	}

	return &ServerContainer{
		container: container,
		ctx:       ctx,
		cancel:    cancel,
		url:       fmt.Sprintf("http://%s:%s", host, port.Port()),
	}
}

// FindProjectRoot walks up from the working directory to the module root.
func FindProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "."
		}
		dir = parent
	}
}
