// Package spawn starts vault processes and hands their ownership to the OS.
package spawn

import (
	"errors"
	"fmt"
	"os/exec"
)

// Launcher starts a process and returns without waiting for it. Callers
// never receive a handle: once Launch returns nil the child belongs to
// the operating system.
type Launcher interface {
	Launch(path string, args []string) error
}

// LaunchError reports a failed attempt to start a vault process. Callers
// should prefer IsLaunchError over asserting on this type directly.
type LaunchError struct {
	path string
	args []string
	err  error
}

func newLaunchError(path string, args []string, err error) *LaunchError {
	return &LaunchError{path: path, args: args, err: err}
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to run '%s' with args %q: %v", e.path, e.args, e.err)
}

func (e *LaunchError) Unwrap() error { return e.err }

// Path returns the executable path of the failed launch.
func (e *LaunchError) Path() string { return e.path }

// Args returns the argument list of the failed launch.
func (e *LaunchError) Args() []string { return e.args }

// IsLaunchError reports whether err is a process launch failure.
func IsLaunchError(err error) bool {
	var launchErr *LaunchError
	return errors.As(err, &launchErr)
}

// ExecLauncher launches real OS processes. The zero value is ready to use.
type ExecLauncher struct{}

// Launch starts path with args. Stdout and Stderr stay nil so the child
// writes to the null device rather than inheriting this process's streams.
// The child is never waited on; Release drops the handle immediately.
func (ExecLauncher) Launch(path string, args []string) error {
	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return newLaunchError(path, args, err)
	}
	_ = cmd.Process.Release()
	return nil
}
