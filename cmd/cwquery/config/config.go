package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/loykin/cwquery/internal/common"
	"github.com/loykin/cwquery/internal/constants"
	"github.com/loykin/cwquery/internal/env"
	"github.com/loykin/cwquery/internal/network"
	"github.com/loykin/cwquery/internal/util"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type LoggingConfig struct {
	Level         string `mapstructure:"level" yaml:"level"`                   // error, warn, info, debug
	Format        string `mapstructure:"format" yaml:"format"`                 // text, json, color
	MaskSensitive *bool  `mapstructure:"mask_sensitive" yaml:"mask_sensitive"` // enable/disable sensitive data masking
	Color         *bool  `mapstructure:"color" yaml:"color"`                   // enable/disable colorized output
}

type ConfigDoc struct {
	// Network names a preset (uni, juno, local) that Client overlays.
	Network string         `mapstructure:"network" yaml:"network"`
	Client  network.Config `mapstructure:"client" yaml:"client"`
	Env     []env.Entry    `mapstructure:"env" yaml:"env"`
	Logging LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	// Timeout bounds one node client run, e.g. "30s". Empty means none.
	Timeout string `mapstructure:"timeout" yaml:"timeout"`
	// Dir is the node client's working directory.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// Overrides are the flag and CWQUERY_* environment values; they win over
// the file.
type Overrides struct {
	Network        string        `mapstructure:"network"`
	Binary         string        `mapstructure:"binary"`
	Node           string        `mapstructure:"node"`
	ChainID        string        `mapstructure:"chain_id"`
	Output         string        `mapstructure:"output"`
	Home           string        `mapstructure:"home"`
	KeyringBackend string        `mapstructure:"keyring_backend"`
	Flags          []string      `mapstructure:"flags"`
	Set            []string      `mapstructure:"set"`
	Timeout        time.Duration `mapstructure:"timeout"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"`
	Dir            string        `mapstructure:"dir"`
}

// Resolved is everything the commands need after layering.
type Resolved struct {
	Network network.Config
	Timeout time.Duration
	Dir     string
}

// Load decodes the YAML file at path.
func (c *ConfigDoc) Load(path string) error {
	clean := filepath.Clean(path)
	info, err := os.Stat(clean)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", clean)
	}
	// #nosec G304 -- config path is provided intentionally by the user
	f, err := os.Open(clean)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("decode %s: %w", clean, err)
	}
	return nil
}

// LoadOptional behaves like Load, except that a missing file is not an error
// unless the user named it explicitly.
func (c *ConfigDoc) LoadOptional(path string, explicit bool) error {
	if path == "" {
		path = constants.DefaultConfigPath
	}
	err := c.Load(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return nil
	}
	return err
}

// stringToArgsHook splits a single string (an environment value) into
// shell words. Values that already arrive as slices, from repeated flags,
// pass through untouched.
func stringToArgsHook() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf([]string{}) {
			return data, nil
		}
		return util.SplitFlags(data.(string))
	}
}

// DecodeOverrides pulls flag and environment values out of v.
func DecodeOverrides(v *viper.Viper) (Overrides, error) {
	var o Overrides
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		stringToArgsHook(),
	))
	if err := v.Unmarshal(&o, hook); err != nil {
		return Overrides{}, fmt.Errorf("decode overrides: %w", err)
	}
	return o, nil
}

// Resolve layers built-in preset, file and overrides, then renders env
// templates. Precedence is override > file > preset.
func (c *ConfigDoc) Resolve(o Overrides) (Resolved, error) {
	name := util.TrimWithDefault(o.Network, util.TrimWithDefault(c.Network, constants.DefaultNetwork))
	base, err := network.Preset(name)
	if err != nil {
		return Resolved{}, err
	}
	cfg := base.Merge(c.Client).Merge(network.Config{
		Binary:         o.Binary,
		Node:           o.Node,
		ChainID:        o.ChainID,
		Output:         o.Output,
		Home:           o.Home,
		KeyringBackend: o.KeyringBackend,
		Flags:          o.Flags,
	})

	vars, unset := env.FromEntries(c.Env)
	for _, name := range unset {
		common.LogWarn("env variable requested but empty or not set", "name", name)
	}
	for _, pair := range o.Set {
		if err := vars.SetLocal(pair); err != nil {
			return Resolved{}, err
		}
	}
	cfg, err = cfg.Render(vars)
	if err != nil {
		return Resolved{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Resolved{}, err
	}

	timeout := o.Timeout
	if timeout == 0 {
		if s, ok := util.TrimEmptyCheck(c.Timeout); ok {
			timeout, err = time.ParseDuration(s)
			if err != nil {
				return Resolved{}, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
			}
		}
	}
	if timeout < 0 {
		return Resolved{}, fmt.Errorf("timeout must not be negative: %s", timeout)
	}

	return Resolved{
		Network: cfg,
		Timeout: timeout,
		Dir:     util.TrimWithDefault(o.Dir, c.Dir),
	}, nil
}

// SetupLogging configures the global logger from the file and overrides.
func (c *ConfigDoc) SetupLogging(o Overrides) error {
	levelStr := util.TrimAndLower(util.TrimWithDefault(o.LogLevel, c.Logging.Level))
	level, ok := common.ParseLogLevel(levelStr)
	if !ok {
		return fmt.Errorf("invalid logging level: %s (valid: error, warn, info, debug)", levelStr)
	}

	format := util.TrimAndLower(util.TrimWithDefault(o.LogFormat, c.Logging.Format))
	useColor := format == "color" || format == "colour"
	if c.Logging.Color != nil {
		useColor = *c.Logging.Color
	}

	var logger *common.Logger
	switch format {
	case "json":
		logger = common.NewJSONLogger(level)
	case "color", "colour":
		logger = common.NewColorLogger(level)
	case "text", "":
		if useColor {
			logger = common.NewColorLogger(level)
		} else {
			logger = common.NewLogger(level)
		}
	default:
		return fmt.Errorf("invalid logging format: %s (valid: text, json, color)", format)
	}

	maskingEnabled := true
	if c.Logging.MaskSensitive != nil {
		maskingEnabled = *c.Logging.MaskSensitive
	}
	common.EnableMasking(maskingEnabled)
	common.SetDefaultLogger(logger)

	logger.Debug("logging configured",
		"level", level.String(),
		"format", util.TrimWithDefault(format, "text"),
		"color", useColor,
		"mask_sensitive", maskingEnabled)
	return nil
}
