package env

import (
	"testing"
)

func TestEnv_RenderGoTemplateErr_Layers(t *testing.T) {
	e := Env{
		Global: Map{"rpc": "https://rpc.uni.junonetwork.io:443?a=1&b=2", "chain": "uni-6"},
		Local:  Map{"chain": "uni-7"},
	}
	tests := []struct {
		in   string
		want string
	}{
		{"{{.env.rpc}}", "https://rpc.uni.junonetwork.io:443?a=1&b=2"},
		{"{{.chain}}", "uni-7"},
		{"{{.env.chain}}", "uni-7"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		got, err := e.RenderGoTemplateErr(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("RenderGoTemplateErr(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestEnv_RenderGoTemplateErr(t *testing.T) {
	e := New()
	if _, err := e.RenderGoTemplateErr("{{.env.nope}}"); err == nil {
		t.Fatal("expected missing key error")
	}
	if _, err := e.RenderGoTemplateErr("{{ .env.x "); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFromEntries(t *testing.T) {
	t.Setenv("CWQUERY_TEST_RPC", "http://localhost:26657")
	e, unset := FromEntries([]Entry{
		{Name: "rpc", ValueFromEnv: "CWQUERY_TEST_RPC"},
		{Name: "chain", Value: "testing", ValueFromEnv: "CWQUERY_TEST_RPC"},
		{Name: "gone", ValueFromEnv: "CWQUERY_TEST_DEFINITELY_UNSET"},
		{Name: "  "},
	})
	if e.Global["rpc"] != "http://localhost:26657" {
		t.Errorf("rpc = %q", e.Global["rpc"])
	}
	if e.Global["chain"] != "testing" {
		t.Errorf("explicit value should win, got %q", e.Global["chain"])
	}
	if len(unset) != 1 || unset[0] != "gone" {
		t.Errorf("unset = %v", unset)
	}
	if len(e.Global) != 3 {
		t.Errorf("blank names must be skipped: %v", e.Global)
	}
}

func TestEnv_SetLocal(t *testing.T) {
	e := New()
	e.Global["node"] = "http://global"
	if err := e.SetLocal("node=http://local"); err != nil {
		t.Fatal(err)
	}
	if v, _ := e.RenderGoTemplateErr("{{.node}}"); v != "http://local" {
		t.Fatalf("got %q", v)
	}
	for _, bad := range []string{"novalue", "=x", " =x"} {
		if err := e.SetLocal(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
