package main

import (
	"errors"

	"github.com/loykin/cwquery/cmd/cwquery/commands"
	"github.com/loykin/cwquery/internal/constants"
	"github.com/loykin/cwquery/internal/dispatch"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "cwquery <contract-address>",
	Short: "Query the task list of a deployed CosmWasm contract",
	Long: `cwquery sends {"get_tasks":{}} to the given contract through the node
client (junod by default) and prints the client's response unmodified.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// A missing address is reported even when the config is broken.
		if !dispatch.HasContract(args) {
			return &commands.ExitCodeError{Code: dispatch.MissingContract(cmd.OutOrStdout())}
		}
		d, err := commands.NewDispatcher(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := commands.Context(cmd)
		defer cancel()
		if code := d.Run(ctx, args); code != 0 {
			return &commands.ExitCodeError{Code: code}
		}
		return nil
	},
}

func init() {
	v := viper.GetViper()
	v.SetDefault("config", constants.DefaultConfigPath)
	v.SetDefault("dry_run", false)

	// Environment variables support: CWQUERY_NODE, CWQUERY_CHAIN_ID, ...
	v.SetEnvPrefix(constants.EnvPrefix)
	v.AutomaticEnv()

	pf := rootCmd.PersistentFlags()
	pf.String("config", v.GetString("config"), "path to a config yaml")
	pf.String("network", "", "network preset: uni, juno or local (default uni)")
	pf.String("binary", "", "node client binary (default junod)")
	pf.String("node", "", "node RPC endpoint")
	pf.String("chain-id", "", "chain id")
	pf.StringP("output", "o", "", "node client output format")
	pf.String("home", "", "node client home directory")
	pf.String("keyring-backend", "", "node client keyring backend")
	pf.StringArray("flag", nil, "extra node client flag, repeatable")
	pf.StringArray("set", nil, "template variable NAME=value, repeatable")
	pf.Duration("timeout", 0, "bound one node client run (0 = none)")
	pf.String("dir", "", "working directory of the node client")
	pf.String("log-level", "", "error, warn, info or debug")
	pf.String("log-format", "", "text, json or color")
	pf.Bool("dry-run", v.GetBool("dry_run"), "print the node client command instead of running it")

	for key, flag := range map[string]string{
		"config":          "config",
		"network":         "network",
		"binary":          "binary",
		"node":            "node",
		"chain_id":        "chain-id",
		"output":          "output",
		"home":            "home",
		"keyring_backend": "keyring-backend",
		"flags":           "flag",
		"set":             "set",
		"timeout":         "timeout",
		"dir":             "dir",
		"log_level":       "log-level",
		"log_format":      "log-format",
		"dry_run":         "dry-run",
	} {
		_ = v.BindPFlag(key, pf.Lookup(flag))
	}

	rootCmd.AddCommand(commands.AgentCmd)
	rootCmd.AddCommand(commands.AgentIdsCmd)
	rootCmd.AddCommand(commands.AgentTasksCmd)
	rootCmd.AddCommand(commands.QueryCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *commands.ExitCodeError
		if errors.As(err, &exitErr) {
			exitHandler.Exit(exitErr.Code)
			return
		}
		exitHandler.LogFatalError(err, "command execution failed")
	}
}
