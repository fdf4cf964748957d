//go:build acceptance

// Package acceptance runs BDD scenarios with godog against the built
// yaota-version binary.
//
// Run with: make acceptance
package acceptance

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// shared holds state for the whole suite.
var shared struct {
	binary   string // path to the yaota-version binary
	buildDir string // temp dir holding a binary built by the suite, if any
}

// findBinary locates the yaota-version binary, building it when none is given.
func findBinary() (string, error) {
	if b := os.Getenv("YAOTA_BINARY"); b != "" {
		return b, nil
	}
	dir, err := os.MkdirTemp("", "yaota-acceptance-*")
	if err != nil {
		return "", err
	}
	shared.buildDir = dir
	bin := filepath.Join(dir, "yaota-version")
	cmd := exec.Command("go", "build", "-o", bin, "./cmd/yaota-version/")
	cmd.Dir = filepath.Join("..", "..")
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("building yaota-version: %w\n%s", err, out)
	}
	return bin, nil
}

// runBinary executes the binary with args in dir.
// Returns stdout, stderr, exit code, and any non-exit-code error (e.g. timeout).
func runBinary(dir string, timeout time.Duration, args ...string) (stdout, stderr string, exitCode int, err error) {
	cmd := exec.Command(shared.binary, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "TERM=dumb", "NO_COLOR=1")

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	if err := cmd.Start(); err != nil {
		return "", "", -1, err
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case waitErr := <-done:
		if waitErr != nil {
			if exitErr, ok := waitErr.(*exec.ExitError); ok {
				return outBuf.String(), errBuf.String(), exitErr.ExitCode(), nil
			}
			return outBuf.String(), errBuf.String(), 1, waitErr
		}
		return outBuf.String(), errBuf.String(), 0, nil
	case <-time.After(timeout):
		_ = cmd.Process.Kill()
		<-done
		return outBuf.String(), errBuf.String(), -1, fmt.Errorf("timed out after %v", timeout)
	}
}

// parseCommand splits a step's command line, dropping a leading binary name.
func parseCommand(command string) []string {
	args := strings.Fields(command)
	if len(args) > 0 && args[0] == "yaota-version" {
		args = args[1:]
	}
	return args
}
