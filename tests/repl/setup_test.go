// Package repl drives the compiled scout binary end to end: a
// container gets the binary plus a fixture codebase, and tests pipe
// scripted command sessions through the prompt.
//
// The tests need a local Docker daemon; they skip without one and in
// -short mode. No API key is required: LLM-backed commands degrade to
// their configured placeholders and errors, which is part of what the
// scripts assert.
//
// Run with:
//
//	go test ./tests/repl/... -v -timeout 10m
package repl

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const replImage = "scout-repl-test:latest"

var (
	buildOnce sync.Once
	buildErr  error
)

// buildImage builds the scout test image once per test run.
func buildImage(t *testing.T) error {
	t.Helper()

	buildOnce.Do(func() {
		t.Log("Building scout test image...")
		root := findProjectRoot(t)

		cmd := exec.Command("docker", "build",
			"-t", replImage,
			"-f", filepath.Join(root, "tests/repl/Dockerfile"),
			root)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			buildErr = err
			return
		}
		t.Log("scout test image built")
	})

	return buildErr
}

// findProjectRoot walks up the directory tree looking for go.mod.
func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	for i := 0; i < 10; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	t.Fatal("Could not find project root (go.mod)")
	return ""
}

// env holds one running scout container.
type env struct {
	ctx       context.Context
	cancel    context.CancelFunc
	container testcontainers.Container
}

// startEnv skips when the test cannot run, builds the image, and
// starts a container that idles until commands are execed into it.
func startEnv(t *testing.T) *env {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	if err := exec.Command("docker", "info").Run(); err != nil {
		t.Skip("Docker not available, skipping container test")
	}
	if err := buildImage(t); err != nil {
		t.Fatalf("Failed to build test image: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:      replImage,
			Cmd:        []string{"tail", "-f", "/dev/null"},
			WaitingFor: wait.ForExec([]string{"echo", "ready"}).WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		cancel()
		t.Fatalf("Failed to start container: %v", err)
	}

	e := &env{ctx: ctx, cancel: cancel, container: container}
	t.Cleanup(e.Close)
	return e
}

// Close terminates the container.
func (e *env) Close() {
	if e.container != nil {
		_ = e.container.Terminate(e.ctx)
	}
	e.cancel()
}

// exec runs a command in the container and returns its exit code and
// combined output.
func (e *env) exec(t *testing.T, cmd ...string) (int, string) {
	t.Helper()

	code, reader, err := e.container.Exec(e.ctx, cmd)
	if err != nil {
		t.Fatalf("Exec %v: %v", cmd, err)
	}

	var b strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			b.Write(buf[:n])
		}
		if err != nil {
			break
		}
	}
	return code, b.String()
}

// runScript pipes a command script into the scout prompt and returns
// the session transcript.
func (e *env) runScript(t *testing.T, script string) string {
	t.Helper()

	if err := e.container.CopyToContainer(e.ctx, []byte(script), "/tmp/script.txt", 0644); err != nil {
		t.Fatalf("Copy script: %v", err)
	}

	code, out := e.exec(t, "sh", "-c", "scout < /tmp/script.txt")
	if code != 0 {
		t.Fatalf("scout exited %d:\n%s", code, out)
	}
	return out
}
