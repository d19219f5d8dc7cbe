// Package proc runs the node client as a child process.
package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/loykin/cwquery/internal/common"
)

// Command describes one node client invocation.
type Command struct {
	Binary string
	Args   []string
	Dir    string
	// Env is appended to the inherited process environment.
	Env []string
}

// String renders the command line with sensitive values masked.
func (c Command) String() string {
	parts := append([]string{c.Binary}, common.GetGlobalMasker().MaskArgs(c.Args)...)
	for i, p := range parts {
		if p == "" || strings.ContainsAny(p, " \t\"'{}") {
			parts[i] = "'" + p + "'"
		}
	}
	return strings.Join(parts, " ")
}

// Result is what the child left behind. Stdout and Stderr hold the full
// captured streams even when they were also teed to live writers.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// ExitError reports a child that ran and exited non-zero.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("node client exited with status %d", e.Code)
}

// Runner executes a Command and always reaps the child before returning.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct {
	// Stdout and Stderr receive the child's output as it is produced.
	Stdout io.Writer
	Stderr io.Writer
	// Timeout bounds a single run and kills the child when it fires.
	// Zero means none.
	Timeout time.Duration
	// ForwardSignals relays SIGINT/SIGTERM received by this process to the
	// child instead of terminating us; the child's handlers decide the outcome.
	ForwardSignals bool

	logger *common.Logger
}

var forwardedSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// NewExecRunner returns a runner streaming to the given writers.
func NewExecRunner(stdout, stderr io.Writer) *ExecRunner {
	return &ExecRunner{
		Stdout: stdout,
		Stderr: stderr,
		logger: common.GetLogger().WithComponent("proc"),
	}
}

// Run starts the command and waits for it. A child that cannot be started
// yields ExitCode -1 and the start error; a child that exits non-zero yields
// its code and an *ExitError.
//
// Cancelling ctx interrupts the child and keeps waiting for it to exit on
// its own terms. Only the runner's Timeout kills it.
func (r *ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	if strings.TrimSpace(c.Binary) == "" {
		return Result{ExitCode: -1}, errors.New("no node client binary configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	parent := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	// #nosec G204 -- the binary and arguments come from the operator's own config
	cmd := exec.CommandContext(ctx, c.Binary, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(cmd.Environ(), c.Env...)
	}
	cmd.Stdout = tee(&stdout, r.Stdout)
	cmd.Stderr = tee(&stderr, r.Stderr)
	cmd.Cancel = func() error {
		if parent.Err() == nil {
			// our own timeout fired
			return cmd.Process.Kill()
		}
		return cmd.Process.Signal(os.Interrupt)
	}

	log := r.logger
	if log == nil {
		log = common.GetLogger().WithComponent("proc")
	}
	log.Debug("starting node client", "command", c.String(), "dir", c.Dir)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("start %s: %w", c.Binary, err)
	}
	if r.ForwardSignals {
		stop := forward(cmd.Process, log)
		defer stop()
	}
	err := cmd.Wait()
	res := Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	st := cmd.ProcessState
	if st == nil {
		res.ExitCode = 1
		return res, fmt.Errorf("wait %s: %w", c.Binary, err)
	}
	if err != nil && st.Success() {
		// exited cleanly after an interrupt, or an output copy failed
		log.Debug("node client wait reported", "error", err)
	}
	res.ExitCode = st.ExitCode()
	if res.ExitCode < 0 {
		// killed by signal or by the timeout
		res.ExitCode = 1
	}
	if res.ExitCode != 0 {
		log.Debug("node client failed", "exit_code", res.ExitCode, "elapsed", res.Duration)
		return res, &ExitError{Code: res.ExitCode}
	}
	log.Debug("node client finished", "elapsed", res.Duration, "bytes", len(res.Stdout))
	return res, nil
}

// forward relays termination signals to p until the returned func is called.
func forward(p *os.Process, log *common.Logger) func() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, forwardedSignals...)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case s := <-sigs:
				log.Debug("forwarding signal to node client", "signal", s.String())
				_ = p.Signal(s)
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(w, buf)
}
