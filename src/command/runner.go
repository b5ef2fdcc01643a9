// Package command runs external commands and streams their combined output
// line by line while they execute.
package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/clarechu/sys-assistant/src/models"
	"k8s.io/klog/v2"
)

// maxLineSize bounds a single output line; longer lines end the stream and
// the rest of the output is discarded.
const maxLineSize = 1 << 20

// PrivilegeCheck reports whether the current process may run privileged
// commands.
type PrivilegeCheck func() bool

// Runner spawns commands. It is safe for concurrent use, although callers
// normally run one command at a time on a worker goroutine.
type Runner struct {
	privileged PrivilegeCheck
	env        []string
	dir        string
}

type Option func(*Runner)

// WithPrivilegeCheck sets the predicate evaluated before every spawn. nil
// disables the check.
func WithPrivilegeCheck(check PrivilegeCheck) Option {
	return func(r *Runner) {
		r.privileged = check
	}
}

// WithEnv sets extra environment variables appended to the inherited
// environment, e.g. DEBIAN_FRONTEND=noninteractive.
func WithEnv(env ...string) Option {
	return func(r *Runner) {
		r.env = append(r.env, env...)
	}
}

func WithDir(dir string) Option {
	return func(r *Runner) {
		r.dir = dir
	}
}

// NewRunner returns a runner that requires elevated privileges unless
// configured otherwise.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{privileged: IsElevated}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Privileged evaluates the privilege predicate.
func (r *Runner) Privileged() bool {
	return r.privileged == nil || r.privileged()
}

// Stream is one running (or refused) command. Lines delivers output as it
// is produced; Wait returns the exit status once the output is drained and
// the process has exited.
type Stream struct {
	lines   chan string
	done    chan struct{}
	outcome models.CommandOutcome
}

// Lines is closed at end of output.
func (s *Stream) Lines() <-chan string {
	return s.lines
}

// Wait discards any lines not yet read and blocks until the process exits.
func (s *Stream) Wait() models.CommandOutcome {
	for range s.lines {
	}
	<-s.done
	return s.outcome
}

// Start spawns argv with stdout and stderr merged. If the privilege check
// fails nothing is spawned and the returned stream is already complete with
// a PermissionDenied outcome. An error is returned only when the process
// could not be started.
func (r *Runner) Start(ctx context.Context, argv []string) (*Stream, error) {
	if len(argv) == 0 {
		return nil, errors.New("command: empty argv")
	}
	s := &Stream{
		lines: make(chan string),
		done:  make(chan struct{}),
	}
	if !r.Privileged() {
		klog.Warningf("refusing to run %q without elevated privileges", strings.Join(argv, " "))
		s.outcome = models.CommandOutcome{
			Argv:             argv,
			ExitCode:         -1,
			PermissionDenied: true,
			Error:            "elevated privileges required",
		}
		close(s.lines)
		close(s.done)
		return s, nil
	}

	// One pipe for both streams keeps stdout and stderr interleaved in the
	// order the child wrote them.
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("command: create pipe: %w", err)
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = pw
	cmd.Stderr = pw
	cmd.Dir = r.dir
	if len(r.env) > 0 {
		cmd.Env = append(os.Environ(), r.env...)
	}
	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, fmt.Errorf("command: start %s: %w", argv[0], err)
	}
	// The child holds its own copy; closing ours lets EOF arrive when it exits.
	pw.Close()
	klog.V(2).Infof("started %q (pid %d)", strings.Join(argv, " "), cmd.Process.Pid)

	go func() {
		defer close(s.done)
		readLines(pr, s.lines)
		pr.Close()
		s.outcome = outcomeOf(argv, cmd.Wait())
		klog.V(2).Infof("%q exited with code %d", strings.Join(argv, " "), s.outcome.ExitCode)
	}()
	return s, nil
}

// Run starts argv and calls onLine for every output line before returning
// the terminal outcome. It blocks until the process exits.
func (r *Runner) Run(ctx context.Context, argv []string, onLine func(string)) (models.CommandOutcome, error) {
	s, err := r.Start(ctx, argv)
	if err != nil {
		return models.CommandOutcome{Argv: argv, ExitCode: -1, Error: err.Error()}, err
	}
	for line := range s.Lines() {
		if onLine != nil {
			onLine(line)
		}
	}
	return s.Wait(), nil
}

func readLines(r io.Reader, out chan<- string) {
	defer close(out)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		out <- strings.ToValidUTF8(strings.TrimRight(scanner.Text(), "\r"), "\uFFFD")
	}
	if err := scanner.Err(); err != nil {
		klog.Warningf("read command output: %s", err)
		// Keep the pipe drained so the child never blocks on a full buffer.
		_, _ = io.Copy(io.Discard, r)
	}
}

func outcomeOf(argv []string, err error) models.CommandOutcome {
	outcome := models.CommandOutcome{Argv: argv}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		outcome.Succeeded = true
	case errors.As(err, &exitErr):
		outcome.ExitCode = exitErr.ExitCode()
		if outcome.ExitCode < 0 {
			outcome.Error = exitErr.String()
		}
	default:
		outcome.ExitCode = -1
		outcome.Error = err.Error()
	}
	return outcome
}
