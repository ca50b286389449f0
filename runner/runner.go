// Package runner executes the active file as a subprocess and streams its
// output back to the editor line by line.
package runner

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Event is one unit of subprocess output.
type Event struct {
	// Line is one line of merged stdout/stderr output. Empty on the
	// final Done event.
	Line string

	// Done marks the last event; ExitCode is only valid then.
	Done     bool
	ExitCode int
	Err      error
}

// Command returns the interpreter invocation for a file, or an error for
// file types the editor cannot run.
func Command(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return []string{"python3", path}, nil
	case ".sh":
		return []string{"sh", path}, nil
	case ".go":
		return []string{"go", "run", path}, nil
	default:
		return nil, fmt.Errorf("don't know how to run %s files", filepath.Ext(path))
	}
}

// Run starts the file's interpreter and returns a channel of output
// events. The channel is closed after the Done event. Cancelling the
// context kills the process.
func Run(ctx context.Context, path string) (<-chan Event, error) {
	argv, err := Command(path)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = filepath.Dir(path)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", argv[0], err)
	}

	events := make(chan Event)
	go func() {
		defer close(events)

		sc := bufio.NewScanner(stdout)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			events <- Event{Line: sc.Text()}
		}

		err := cmd.Wait()
		code := cmd.ProcessState.ExitCode()
		if err != nil && code == 0 {
			code = -1
		}
		if code != 0 {
			events <- Event{Line: fmt.Sprintf("[ERROR] process exited with code %d", code)}
		}
		events <- Event{Done: true, ExitCode: code, Err: err}
	}()
	return events, nil
}
