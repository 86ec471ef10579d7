// Package prompt asks the user for the contract path on the terminal.
package prompt

import (
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
)

const ContractPrompt = "Enter Solidity contract path: "

var ErrAborted = errors.New("input aborted")

// ContractPath reads one line from in, echoing the prompt to out. Tab
// completes file names relative to the current directory.
func ContractPath(in io.ReadCloser, out io.Writer) (string, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ContractPrompt,
		InterruptPrompt: "^C",
		AutoComplete:    fileCompleter{},
		Stdin:           in,
		Stdout:          out,
		Stderr:          out,
	})
	if err != nil {
		return "", errors.Wrap(err, "readline")
	}
	defer rl.Close()

	line, err := rl.Readline()
	if err == readline.ErrInterrupt {
		return "", ErrAborted
	}
	if err == io.EOF && line == "" {
		return "", ErrAborted
	}
	if err != nil && err != io.EOF {
		return "", errors.Wrap(err, "Readline")
	}
	return strings.TrimSpace(line), nil
}

// Stdin wraps os.Stdin so closing the prompt does not close the terminal.
func Stdin() io.ReadCloser {
	return readline.NewCancelableStdin(os.Stdin)
}

type fileCompleter struct{}

func (fileCompleter) Do(line []rune, pos int) ([][]rune, int) {
	typed := string(line[:pos])
	dir, prefix := splitDir(typed)
	entries, err := os.ReadDir(dirOrDot(dir))
	if err != nil {
		return nil, 0
	}
	var candidates [][]rune
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		suffix := strings.TrimPrefix(name, prefix)
		if entry.IsDir() {
			suffix += string(os.PathSeparator)
		}
		candidates = append(candidates, []rune(suffix))
	}
	return candidates, len([]rune(prefix))
}

func splitDir(typed string) (string, string) {
	i := strings.LastIndexAny(typed, `/`+string(os.PathSeparator))
	if i < 0 {
		return "", typed
	}
	return typed[:i+1], typed[i+1:]
}

func dirOrDot(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}
