package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/loykin/cwquery/internal/common"
	"github.com/loykin/cwquery/internal/env"
	"github.com/loykin/cwquery/internal/network"
	"github.com/spf13/viper"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "cwquery.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestConfigDoc_Load_NotRegularFile(t *testing.T) {
	var c ConfigDoc
	if err := c.Load(t.TempDir()); err == nil {
		t.Fatalf("expected error for directory path (not a regular file)")
	}
}

func TestConfigDoc_Load(t *testing.T) {
	p := writeConfig(t, `
network: local
client:
  node: "{{.env.rpc}}"
  flags: ["--height", "42"]
env:
  - name: rpc
    value: http://10.0.0.5:26657
logging:
  level: debug
  format: json
timeout: 15s
`)
	var c ConfigDoc
	if err := c.Load(p); err != nil {
		t.Fatal(err)
	}
	if c.Network != "local" || c.Client.Node != "{{.env.rpc}}" || c.Timeout != "15s" {
		t.Fatalf("unexpected doc %+v", c)
	}
	if len(c.Env) != 1 || c.Env[0].Value != "http://10.0.0.5:26657" {
		t.Fatalf("env = %+v", c.Env)
	}
}

func TestConfigDoc_LoadOptional(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(wd) }()

	tests := []struct {
		name     string
		path     string
		explicit bool
		wantErr  bool
	}{
		{"empty path falls back to default", "", false, false},
		{"default path not given by the user", "./cwquery.yaml", false, false},
		{"other path from the default", filepath.Join(dir, "other.yaml"), false, false},
		{"default path named by the user", "./cwquery.yaml", true, true},
		{"explicit path", filepath.Join(dir, "explicit.yaml"), true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c ConfigDoc
			err := c.LoadOptional(tt.path, tt.explicit)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadOptional(%q, %v) error = %v, wantErr %v", tt.path, tt.explicit, err, tt.wantErr)
			}
		})
	}
}

func TestResolve_Precedence(t *testing.T) {
	c := ConfigDoc{
		Network: "local",
		Client:  network.Config{ChainID: "file-1", Node: "{{.env.rpc}}"},
		Env:     []env.Entry{{Name: "rpc", Value: "http://file:26657"}},
		Timeout: "10s",
	}

	r, err := c.Resolve(Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	if r.Network.ChainID != "file-1" || r.Network.Node != "http://file:26657" || r.Network.Binary != "junod" {
		t.Fatalf("file layer: %+v", r.Network)
	}
	if r.Timeout != 10*time.Second {
		t.Fatalf("timeout = %s", r.Timeout)
	}

	r, err = c.Resolve(Overrides{ChainID: "flag-1", Set: []string{"rpc=http://set:26657"}, Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	if r.Network.ChainID != "flag-1" || r.Network.Node != "http://set:26657" || r.Timeout != time.Second {
		t.Fatalf("override layer: %+v %s", r.Network, r.Timeout)
	}
}

func TestResolve_DefaultPreset(t *testing.T) {
	var c ConfigDoc
	r, err := c.Resolve(Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	want, _ := network.Preset("uni")
	if !reflect.DeepEqual(r.Network, want) {
		t.Fatalf("got %+v want %+v", r.Network, want)
	}
	if r.Timeout != 0 {
		t.Fatalf("no timeout by default, got %s", r.Timeout)
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  ConfigDoc
		o    Overrides
		want string
	}{
		{"unknown network", ConfigDoc{}, Overrides{Network: "mars"}, "unknown network"},
		{"bad timeout", ConfigDoc{Timeout: "soon"}, Overrides{}, "invalid timeout"},
		{"negative timeout", ConfigDoc{}, Overrides{Timeout: -time.Second}, "negative"},
		{"bad set", ConfigDoc{}, Overrides{Set: []string{"oops"}}, "NAME=value"},
		{"missing template var", ConfigDoc{Client: network.Config{Node: "{{.env.nope}}"}}, Overrides{}, "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.doc.Resolve(tt.o)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDecodeOverrides_FromEnv(t *testing.T) {
	t.Setenv("CWQUERY_CHAIN_ID", "juno-1")
	t.Setenv("CWQUERY_FLAGS", "--height 7 --gas-prices=0.1ujuno,0.2uatom")
	t.Setenv("CWQUERY_TIMEOUT", "2m")

	v := viper.New()
	v.SetEnvPrefix("CWQUERY")
	v.AutomaticEnv()
	for _, k := range []string{"chain_id", "flags", "timeout"} {
		if err := v.BindEnv(k); err != nil {
			t.Fatal(err)
		}
	}

	o, err := DecodeOverrides(v)
	if err != nil {
		t.Fatal(err)
	}
	if o.ChainID != "juno-1" || o.Timeout != 2*time.Minute {
		t.Fatalf("overrides = %+v", o)
	}
	want := []string{"--height", "7", "--gas-prices=0.1ujuno,0.2uatom"}
	if !reflect.DeepEqual(o.Flags, want) {
		t.Fatalf("flags = %#v", o.Flags)
	}
}

func TestDecodeOverrides_UnbalancedQuote(t *testing.T) {
	t.Setenv("CWQUERY_FLAGS", `--note "unterminated`)

	v := viper.New()
	v.SetEnvPrefix("CWQUERY")
	v.AutomaticEnv()
	if err := v.BindEnv("flags"); err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeOverrides(v); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestSetupLogging(t *testing.T) {
	prev := common.GetLogger()
	defer common.SetDefaultLogger(prev)
	defer common.EnableMasking(true)

	off := false
	c := ConfigDoc{Logging: LoggingConfig{Level: "info", Format: "json", MaskSensitive: &off}}
	if err := c.SetupLogging(Overrides{}); err != nil {
		t.Fatal(err)
	}
	if common.GetLogger().Level() != common.LogLevelInfo {
		t.Fatalf("level = %v", common.GetLogger().Level())
	}
	if common.GetGlobalMasker().IsEnabled() {
		t.Fatal("masking should be disabled")
	}

	if err := c.SetupLogging(Overrides{LogLevel: "debug", LogFormat: "text"}); err != nil {
		t.Fatal(err)
	}
	if common.GetLogger().Level() != common.LogLevelDebug {
		t.Fatalf("override level = %v", common.GetLogger().Level())
	}

	if err := c.SetupLogging(Overrides{LogLevel: "loud"}); err == nil {
		t.Fatal("expected invalid level error")
	}
	if err := c.SetupLogging(Overrides{LogFormat: "xml"}); err == nil {
		t.Fatal("expected invalid format error")
	}
}
