// Package network describes which chain the node client is pointed at.
package network

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/loykin/cwquery/internal/constants"
	"github.com/loykin/cwquery/internal/env"
	"github.com/loykin/cwquery/internal/util"
)

// Config is built once at startup and handed to the dispatcher.
type Config struct {
	Binary         string   `mapstructure:"binary" yaml:"binary"`
	Node           string   `mapstructure:"node" yaml:"node"`
	ChainID        string   `mapstructure:"chain_id" yaml:"chain_id"`
	Output         string   `mapstructure:"output" yaml:"output"`
	Home           string   `mapstructure:"home" yaml:"home,omitempty"`
	KeyringBackend string   `mapstructure:"keyring_backend" yaml:"keyring_backend,omitempty"`
	Flags          []string `mapstructure:"flags" yaml:"flags,omitempty"`
	// FlagString is the single shell-style string form, e.g.
	// "--node https://rpc.uni.junonetwork.io:443 --chain-id uni-6".
	FlagString string `mapstructure:"flag_string" yaml:"flag_string,omitempty"`
}

var ErrNoBinary = errors.New("network: node client binary is empty")

var presets = map[string]Config{
	"uni": {
		Binary:  constants.DefaultBinary,
		Node:    "https://rpc.uni.junonetwork.io:443",
		ChainID: "uni-6",
		Output:  constants.DefaultOutput,
	},
	"juno": {
		Binary:  constants.DefaultBinary,
		Node:    "https://rpc-juno.itastakers.com:443",
		ChainID: "juno-1",
		Output:  constants.DefaultOutput,
	},
	"local": {
		Binary:  constants.DefaultBinary,
		Node:    "http://localhost:26657",
		ChainID: "testing",
		Output:  constants.DefaultOutput,
	},
}

// Preset returns a copy of the named preset.
func Preset(name string) (Config, error) {
	p, ok := presets[util.TrimAndLower(name)]
	if !ok {
		return Config{}, fmt.Errorf("unknown network %q (known: %s)", name, strings.Join(PresetNames(), ", "))
	}
	return p, nil
}

// PresetNames lists the known presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Merge overlays non-empty fields of o onto c. Flags are appended.
func (c Config) Merge(o Config) Config {
	set := func(dst *string, v string) {
		if v, ok := util.TrimEmptyCheck(v); ok {
			*dst = v
		}
	}
	set(&c.Binary, o.Binary)
	set(&c.Node, o.Node)
	set(&c.ChainID, o.ChainID)
	set(&c.Output, o.Output)
	set(&c.Home, o.Home)
	set(&c.KeyringBackend, o.KeyringBackend)
	set(&c.FlagString, o.FlagString)
	if len(o.Flags) > 0 {
		c.Flags = append(append([]string{}, c.Flags...), o.Flags...)
	}
	return c
}

// Render expands {{.env.NAME}} references in every field.
func (c Config) Render(e *env.Env) (Config, error) {
	if e == nil {
		return c, nil
	}
	var firstErr error
	r := func(s string) string {
		out, err := e.RenderGoTemplateErr(s)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return out
	}
	c.Binary = r(c.Binary)
	c.Node = r(c.Node)
	c.ChainID = r(c.ChainID)
	c.Output = r(c.Output)
	c.Home = r(c.Home)
	c.KeyringBackend = r(c.KeyringBackend)
	c.FlagString = r(c.FlagString)
	if len(c.Flags) > 0 {
		flags := make([]string, len(c.Flags))
		for i, f := range c.Flags {
			flags[i] = r(f)
		}
		c.Flags = flags
	}
	return c, firstErr
}

// Validate only insists on a binary; an empty node or chain id leaves the
// node client to its own defaults.
func (c Config) Validate() error {
	if _, ok := util.TrimEmptyCheck(c.Binary); !ok {
		return ErrNoBinary
	}
	if _, err := util.SplitFlags(c.FlagString); err != nil {
		return fmt.Errorf("flag_string: %w", err)
	}
	return nil
}

// Args renders the network flags appended after the query arguments.
func (c Config) Args() []string {
	var args []string
	add := func(flag, v string) {
		if v, ok := util.TrimEmptyCheck(v); ok {
			args = append(args, flag, v)
		}
	}
	add("--node", c.Node)
	add("--chain-id", c.ChainID)
	add("--output", c.Output)
	add("--home", c.Home)
	add("--keyring-backend", c.KeyringBackend)
	for _, f := range c.Flags {
		if f = strings.TrimSpace(f); f != "" {
			args = append(args, f)
		}
	}
	// Validate rejects a FlagString that does not split.
	extra, _ := util.SplitFlags(c.FlagString)
	return append(args, extra...)
}
