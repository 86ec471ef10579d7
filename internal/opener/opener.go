// Package opener hands a file to the desktop's default application.
package opener

import (
	"context"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var ErrOpenerNotFound = errors.New("open command not found")

type Opener interface {
	Open(ctx context.Context, path string) error
}

// Command opens files by running Name with Args followed by the path.
type Command struct {
	Name string
	Args []string

	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) error
}

func NewCommand(name string, args ...string) *Command {
	return &Command{
		Name:     name,
		Args:     args,
		lookPath: exec.LookPath,
		run:      runCommand,
	}
}

func (c *Command) Open(ctx context.Context, path string) error {
	bin, err := c.lookPath(c.Name)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return errors.Wrapf(ErrOpenerNotFound, "%s", c.Name)
		}
		return errors.Wrapf(err, "LookPath %s", c.Name)
	}
	args := append(append([]string{}, c.Args...), path)
	log.Debugf("open %s: %s %s", path, bin, strings.Join(args, " "))
	return c.run(ctx, bin, args...)
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Nop does nothing, for --no-open and tests.
type Nop struct{}

func (Nop) Open(context.Context, string) error { return nil }

// ForOS picks the opener for a GOOS value. Anything not darwin or windows is
// treated like Linux.
func ForOS(goos string) *Command {
	switch goos {
	case "darwin":
		return NewCommand("open")
	case "windows":
		// start is a cmd builtin; the empty string is the window title
		return NewCommand("cmd", "/c", "start", "")
	default:
		return NewCommand("xdg-open")
	}
}

func Default() *Command {
	return ForOS(runtime.GOOS)
}
