package commands

import (
	"fmt"

	"github.com/loykin/cwquery/internal/common"
	"github.com/loykin/cwquery/internal/network"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective network configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadResolved(cmd, viper.GetViper())
		if err != nil {
			return err
		}
		out := struct {
			Client  network.Config `yaml:"client"`
			Args    []string       `yaml:"args"`
			Timeout string         `yaml:"timeout,omitempty"`
			Dir     string         `yaml:"dir,omitempty"`
		}{
			Client: masked(res.Network),
			Args:   common.GetGlobalMasker().MaskArgs(res.Network.Args()),
			Dir:    res.Dir,
		}
		if res.Timeout > 0 {
			out.Timeout = res.Timeout.String()
		}
		b, err := yaml.Marshal(out)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), string(b))
		return err
	},
}

func masked(c network.Config) network.Config {
	m := common.GetGlobalMasker()
	c.Node = m.MaskURL(c.Node)
	c.FlagString = m.MaskString(c.FlagString)
	if len(c.Flags) > 0 {
		c.Flags = m.MaskArgs(c.Flags)
	}
	return c
}
