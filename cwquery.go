package cwquery

import (
	"context"
	"io"

	"github.com/loykin/cwquery/internal/common"
	"github.com/loykin/cwquery/internal/dispatch"
	"github.com/loykin/cwquery/internal/network"
	"github.com/loykin/cwquery/internal/proc"
	"github.com/loykin/cwquery/internal/query"
)

// Re-export commonly used types for public API

// NetworkConfig selects the node client and the chain it talks to.
type NetworkConfig = network.Config

// Result is what the node client printed and how it exited.
type Result = proc.Result

// ExitError reports a node client that exited non-zero.
type ExitError = proc.ExitError

// QueryMsg is a smart query document for the task manager contract.
type QueryMsg = query.Msg

// Runner executes node client commands.
type Runner = proc.Runner

// Command is one node client invocation.
type Command = proc.Command

// Logger is the structured logger used across the module.
type Logger = common.Logger

// LogLevel represents logging verbosity levels
type LogLevel = common.LogLevel

const (
	LogLevelError = common.LogLevelError
	LogLevelWarn  = common.LogLevelWarn
	LogLevelInfo  = common.LogLevelInfo
	LogLevelDebug = common.LogLevelDebug
)

// TasksDocument is the query sent by QueryTasks.
const TasksDocument = query.TasksDocument

// Network returns a copy of a built-in network preset (uni, juno, local).
func Network(name string) (NetworkConfig, error) { return network.Preset(name) }

// GetAgent, GetAgentIds and GetAgentTasks build the agent queries.
func GetAgent(account string) QueryMsg { return query.GetAgent(account) }
func GetAgentIds() QueryMsg { return query.GetAgentIds() }
func GetAgentTasks(account string) QueryMsg { return query.GetAgentTasks(account) }

// RawQuery wraps a caller supplied query document after checking its shape.
func RawQuery(doc string) (QueryMsg, error) { return query.Raw(doc) }

// SetDefaultLogger replaces the module-wide logger.
func SetDefaultLogger(l *Logger) { common.SetDefaultLogger(l) }

// NewLogger creates a text logger writing to w.
func NewLogger(w io.Writer, level LogLevel) *Logger { return common.NewLoggerTo(w, level) }

// Client runs queries against one network. The node client's output is
// streamed to Stdout/Stderr and also returned in Result.
type Client struct {
	d *dispatch.Dispatcher
}

// NewClient returns a Client using the os/exec runner.
func NewClient(cfg NetworkConfig, stdout, stderr io.Writer) *Client {
	d := dispatch.New(cfg)
	d.Stdout, d.Stderr = stdout, stderr
	d.Runner = proc.NewExecRunner(stdout, stderr)
	return &Client{d: d}
}

// NewClientWithRunner returns a Client using r to execute commands.
func NewClientWithRunner(cfg NetworkConfig, r Runner) *Client {
	d := dispatch.New(cfg)
	d.Stdout, d.Stderr = io.Discard, io.Discard
	d.Runner = r
	return &Client{d: d}
}

// QueryTasks sends {"get_tasks":{}} to contract.
func (c *Client) QueryTasks(ctx context.Context, contract string) (Result, error) {
	return c.d.Dispatch(ctx, contract, query.Msg{GetTasks: &query.Empty{}})
}

// Query sends msg to contract.
func (c *Client) Query(ctx context.Context, contract string, msg QueryMsg) (Result, error) {
	return c.d.Dispatch(ctx, contract, msg)
}

// Command returns the command line QueryTasks would run, without running it.
func (c *Client) Command(contract string) Command {
	return c.d.Command(contract, query.GetTasks())
}
