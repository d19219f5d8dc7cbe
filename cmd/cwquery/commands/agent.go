package commands

import (
	"github.com/loykin/cwquery/internal/query"
	"github.com/spf13/cobra"
)

var AgentCmd = &cobra.Command{
	Use:   "agent <contract-address> <agent-address>",
	Short: "Show a registered agent (get_agent)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, args[0], query.GetAgent(args[1]))
	},
}

var AgentIdsCmd = &cobra.Command{
	Use:   "agent-ids <contract-address>",
	Short: "List active and pending agent addresses (get_agent_ids)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, args[0], query.GetAgentIds())
	},
}

var AgentTasksCmd = &cobra.Command{
	Use:   "agent-tasks <contract-address> <agent-address>",
	Short: "Show how many tasks an agent can execute (get_agent_tasks)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, args[0], query.GetAgentTasks(args[1]))
	},
}

var QueryCmd = &cobra.Command{
	Use:     "query <contract-address> <query-json>",
	Short:   "Send an arbitrary smart query document",
	Example: `  cwquery query juno1... '{"get_config":{}}'`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := query.Raw(args[1])
		if err != nil {
			return err
		}
		return runQuery(cmd, args[0], msg)
	},
}

func runQuery(cmd *cobra.Command, contract string, msg query.Msg) error {
	d, err := NewDispatcher(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := Context(cmd)
	defer cancel()
	res, err := d.Dispatch(ctx, contract, msg)
	return exitWith(d.ExitStatus(res, err))
}
