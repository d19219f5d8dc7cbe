package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/loykin/cwquery/cmd/cwquery/config"
	"github.com/loykin/cwquery/internal/constants"
	"github.com/loykin/cwquery/internal/dispatch"
	"github.com/loykin/cwquery/internal/proc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ExitCodeError carries a process exit status out of a command. main exits
// with Code and prints nothing: whatever needed saying has been written.
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ConfigError marks a failure to load or resolve configuration. main exits
// with constants.ExitInvalidConfig for it.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// NewRunner builds the node client runner. Tests replace it.
var NewRunner = func(stdout, stderr io.Writer, timeout time.Duration) proc.Runner {
	r := proc.NewExecRunner(stdout, stderr)
	r.Timeout = timeout
	r.ForwardSignals = true
	return r
}

// explicitConfig reports whether the config path came from the user rather
// than the built-in default.
func explicitConfig(cmd *cobra.Command) bool {
	if f := cmd.Flag("config"); f != nil && f.Changed {
		return true
	}
	_, ok := os.LookupEnv(constants.EnvPrefix + "_CONFIG")
	return ok
}

// loadResolved reads the config file named by viper's "config" key and
// layers flag/env overrides on top.
func loadResolved(cmd *cobra.Command, v *viper.Viper) (config.Resolved, error) {
	var doc config.ConfigDoc
	if err := doc.LoadOptional(v.GetString("config"), explicitConfig(cmd)); err != nil {
		return config.Resolved{}, &ConfigError{Err: fmt.Errorf("load config: %w", err)}
	}
	o, err := config.DecodeOverrides(v)
	if err != nil {
		return config.Resolved{}, &ConfigError{Err: err}
	}
	if err := doc.SetupLogging(o); err != nil {
		return config.Resolved{}, &ConfigError{Err: err}
	}
	res, err := doc.Resolve(o)
	if err != nil {
		return config.Resolved{}, &ConfigError{Err: err}
	}
	return res, nil
}

// NewDispatcher builds a Dispatcher wired to cmd's output streams.
func NewDispatcher(cmd *cobra.Command) (*dispatch.Dispatcher, error) {
	v := viper.GetViper()
	res, err := loadResolved(cmd, v)
	if err != nil {
		return nil, err
	}
	d := dispatch.New(res.Network)
	d.Stdout = cmd.OutOrStdout()
	d.Stderr = cmd.ErrOrStderr()
	d.Runner = NewRunner(d.Stdout, d.Stderr, res.Timeout)
	d.DryRun = v.GetBool("dry_run")
	d.Dir = res.Dir
	return d, nil
}

// Context is the context for one node client run. SIGINT and SIGTERM do not
// cancel it: the runner relays them to the child, which decides its own exit
// status.
func Context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithCancel(parent)
}

func exitWith(code int) error {
	if code == 0 {
		return nil
	}
	return &ExitCodeError{Code: code}
}
