package util

import (
	"reflect"
	"testing"
)

func TestTrimHelpers(t *testing.T) {
	if got := TrimAndLower("  JSON "); got != "json" {
		t.Fatalf("TrimAndLower: %q", got)
	}
	if v, ok := TrimEmptyCheck("   "); ok || v != "" {
		t.Fatalf("TrimEmptyCheck blank: %q %v", v, ok)
	}
	if v, ok := TrimEmptyCheck(" junod "); !ok || v != "junod" {
		t.Fatalf("TrimEmptyCheck: %q %v", v, ok)
	}
	if got := TrimWithDefault("", "warn"); got != "warn" {
		t.Fatalf("TrimWithDefault: %q", got)
	}
}

func TestSplitFlags(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{in: "", want: nil},
		{in: "   ", want: nil},
		{in: "--node http://localhost:26657 --chain-id testing", want: []string{"--node", "http://localhost:26657", "--chain-id", "testing"}},
		{in: "  --node\thttps://rpc:443\n--output json ", want: []string{"--node", "https://rpc:443", "--output", "json"}},
		{in: `--note "two words"`, want: []string{"--note", "two words"}},
		{in: `--gas-prices='0.025ujunox'`, want: []string{"--gas-prices=0.025ujunox"}},
		{in: `--memo two\ words`, want: []string{"--memo", "two words"}},
		{in: "--gas-prices=0.1ujuno,0.2uatom", want: []string{"--gas-prices=0.1ujuno,0.2uatom"}},
		{in: `--node 'http://rpc:26657?a=1&b=2'`, want: []string{"--node", "http://rpc:26657?a=1&b=2"}},
		{in: `--note "unterminated`, wantErr: true},
		{in: "--node http://rpc:26657?a=1&b=2", wantErr: true},
	}
	for _, tt := range tests {
		got, err := SplitFlags(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("SplitFlags(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if len(got) != len(tt.want) || (len(got) > 0 && !reflect.DeepEqual(got, tt.want)) {
			t.Errorf("SplitFlags(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
