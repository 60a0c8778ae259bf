package preprocess

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

func (st *fileState) execCommand(args string, _ logicalLine) (string, error) {
	if args == "" {
		return "", fmt.Errorf("%w: #exec expects a command", ErrInvalidDirective)
	}
	return st.runCommand(args, nil)
}

// pipeIn starts collecting lines for the command of the matching #endin.
func (st *fileState) pipeIn(args string, ln logicalLine) (string, error) {
	if args == "" {
		return "", fmt.Errorf("%w: #in expects a command", ErrInvalidDirective)
	}
	st.ctx.pipes = append(st.ctx.pipes, &pipe{line: ln.line, command: args})
	st.skipWrite = true
	return "", nil
}

func (st *fileState) pipeEnd(args string, _ logicalLine) (string, error) {
	if args != "" {
		return "", fmt.Errorf("%w: extra tokens at end of #endin", ErrInvalidDirective)
	}
	n := len(st.ctx.pipes)
	if n == 0 {
		return "", fmt.Errorf("%w: #endin without #in", ErrUnexpectedDirective)
	}
	p := st.ctx.pipes[n-1]
	st.ctx.pipes = st.ctx.pipes[:n-1]
	return st.runCommand(p.command, strings.NewReader(p.input.String()))
}

// runCommand runs command through the shell in the directory of the
// current file. The trailing newline of its output is dropped.
func (st *fileState) runCommand(command string, stdin io.Reader) (string, error) {
	shell := st.ctx.Shell
	if shell == "" {
		shell = "sh"
	}
	// #nosec G204 -- #exec is opt-in through AllowExec
	cmd := exec.Command(shell, "-c", command)
	cmd.Dir = st.dir
	cmd.Stdin = stdin
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("%w: %s: %w", ErrExecFailed, command, err)
		}
		return "", fmt.Errorf("%w: %s: %w: %s", ErrExecFailed, command, err, msg)
	}
	return strings.TrimSuffix(string(out), "\n"), nil
}
