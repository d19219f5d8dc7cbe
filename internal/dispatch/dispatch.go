// Package dispatch turns a contract address and a query into exactly one
// node client invocation.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/loykin/cwquery/internal/common"
	"github.com/loykin/cwquery/internal/constants"
	"github.com/loykin/cwquery/internal/network"
	"github.com/loykin/cwquery/internal/proc"
	"github.com/loykin/cwquery/internal/query"
)

var ErrMissingContract = errors.New(constants.MissingContractMessage)

// Dispatcher owns the network config for the lifetime of the process.
type Dispatcher struct {
	Network network.Config
	Runner  proc.Runner
	// Stdout receives local messages; the node client's output goes
	// through the Runner.
	Stdout io.Writer
	Stderr io.Writer
	// DryRun prints the command line instead of running it.
	DryRun bool
	// Dir is the working directory of the child. Empty inherits ours.
	Dir string

	logger *common.Logger
}

// New builds a Dispatcher streaming through an ExecRunner to the process
// stdout/stderr.
func New(cfg network.Config) *Dispatcher {
	return &Dispatcher{
		Network: cfg,
		Runner:  proc.NewExecRunner(os.Stdout, os.Stderr),
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		logger:  common.GetLogger().WithComponent("dispatch"),
	}
}

// Command returns the node client invocation for contract and doc.
func (d *Dispatcher) Command(contract string, doc query.Document) proc.Command {
	args := []string{"query", "wasm", "contract-state", "smart", contract, doc.String()}
	args = append(args, d.Network.Args()...)
	return proc.Command{Binary: d.Network.Binary, Args: args, Dir: d.Dir}
}

// Run is the default entry point: args[0] is the contract address and the
// get_tasks document is sent. It returns the process exit status. An empty
// first argument counts as missing.
func (d *Dispatcher) Run(ctx context.Context, args []string) int {
	if !HasContract(args) {
		return MissingContract(d.stdout())
	}
	res, err := d.dispatch(ctx, args[0], query.GetTasks())
	return d.exitStatus(res, err)
}

// HasContract reports whether args carry a non-empty contract address.
func HasContract(args []string) bool {
	return len(args) > 0 && args[0] != ""
}

// MissingContract writes the usage message to w and returns the exit status
// for a missing contract address. It needs no configuration, so callers can
// use it before anything else is loaded.
func MissingContract(w io.Writer) int {
	_, _ = fmt.Fprintln(w, constants.MissingContractMessage)
	return constants.ExitMissingArg
}

// Dispatch sends msg to contract. The node client's output is streamed by
// the Runner; a non-zero exit comes back as *proc.ExitError.
func (d *Dispatcher) Dispatch(ctx context.Context, contract string, msg query.Msg) (proc.Result, error) {
	if contract == "" {
		return proc.Result{}, ErrMissingContract
	}
	doc, err := msg.Document()
	if err != nil {
		return proc.Result{}, err
	}
	return d.dispatch(ctx, contract, doc)
}

// ExitStatus maps a Dispatch outcome to a process exit status.
func (d *Dispatcher) ExitStatus(res proc.Result, err error) int {
	return d.exitStatus(res, err)
}

func (d *Dispatcher) dispatch(ctx context.Context, contract string, doc query.Document) (proc.Result, error) {
	if err := d.Network.Validate(); err != nil {
		return proc.Result{ExitCode: -1}, err
	}
	cmd := d.Command(contract, doc)
	log := d.log().WithContract(contract).WithNetwork(d.Network.ChainID, d.Network.Node)

	if d.DryRun {
		_, _ = fmt.Fprintln(d.stdout(), cmd.String())
		return proc.Result{}, nil
	}

	log.Info("querying contract state", "query", doc.Name())
	res, err := d.Runner.Run(ctx, cmd)
	if err != nil {
		var exitErr *proc.ExitError
		if errors.As(err, &exitErr) {
			log.Debug("node client returned non-zero", "exit_code", exitErr.Code)
		} else {
			log.Error("could not run node client", "error", err, "binary", cmd.Binary)
		}
		return res, err
	}
	return res, nil
}

func (d *Dispatcher) exitStatus(res proc.Result, err error) int {
	if err == nil {
		return constants.ExitOK
	}
	var exitErr *proc.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, ErrMissingContract) {
		_, _ = fmt.Fprintln(d.stdout(), constants.MissingContractMessage)
		return constants.ExitMissingArg
	}
	_, _ = fmt.Fprintf(d.stderr(), "Error: %v\n", err)
	if res.ExitCode > 0 {
		return res.ExitCode
	}
	return constants.ExitStartFailure
}

func (d *Dispatcher) log() *common.Logger {
	if d.logger == nil {
		d.logger = common.GetLogger().WithComponent("dispatch")
	}
	return d.logger
}

func (d *Dispatcher) stdout() io.Writer {
	if d.Stdout == nil {
		return os.Stdout
	}
	return d.Stdout
}

func (d *Dispatcher) stderr() io.Writer {
	if d.Stderr == nil {
		return os.Stderr
	}
	return d.Stderr
}
