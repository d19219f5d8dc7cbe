package env

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"
)

type Map map[string]string

// New returns an Env with its maps initialized.
func New() *Env {
	return &Env{Global: Map{}, Local: Map{}}
}

// Env holds the variables available to config templates.
// Global comes from the config file's env list, Local from --set flags;
// Local wins on lookup.
type Env struct {
	Global Map
	Local  Map
}

// Entry is one `env:` item of the config file.
type Entry struct {
	Name         string `mapstructure:"name" yaml:"name"`
	Value        string `mapstructure:"value" yaml:"value"`
	ValueFromEnv string `mapstructure:"valueFromEnv" yaml:"valueFromEnv"`
}

// FromEntries builds an Env whose Global layer is filled from entries.
// valueFromEnv is consulted only when value is empty. The returned slice
// names entries that asked for an unset process variable.
func FromEntries(entries []Entry) (*Env, []string) {
	e := New()
	var unset []string
	for _, kv := range entries {
		name := strings.TrimSpace(kv.Name)
		if name == "" {
			continue
		}
		val := kv.Value
		if from := strings.TrimSpace(kv.ValueFromEnv); val == "" && from != "" {
			val = os.Getenv(from)
			if val == "" {
				unset = append(unset, name)
			}
		}
		e.Global[name] = val
	}
	return e, unset
}

func (e *Env) merged() map[string]string {
	m := map[string]string{}
	if e == nil {
		return m
	}
	for k, v := range e.Global {
		m[k] = v
	}
	for k, v := range e.Local {
		m[k] = v
	}
	return m
}

// dataForTemplate exposes variables both flat ({{.node}}) and grouped
// under .env ({{.env.node}}).
func (e *Env) dataForTemplate() map[string]interface{} {
	merged := e.merged()
	data := make(map[string]interface{}, len(merged)+1)
	for k, v := range merged {
		data[k] = v
	}
	data["env"] = merged
	return data
}

// RenderGoTemplateErr renders {{...}} references, reporting parse and
// missing-key errors. Local variables shadow Global ones.
// text/template is used so URLs and flag values are not HTML-escaped.
func (e *Env) RenderGoTemplateErr(s string) (string, error) {
	if !strings.Contains(s, "{{") {
		return s, nil
	}
	t, err := template.New("cfg").Option("missingkey=error").Parse(s)
	if err != nil {
		return s, fmt.Errorf("parse template %q: %w", s, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, e.dataForTemplate()); err != nil {
		return s, fmt.Errorf("render template %q: %w", s, err)
	}
	return buf.String(), nil
}

// SetLocal parses a NAME=value pair into the Local layer.
func (e *Env) SetLocal(pair string) error {
	name, value, ok := strings.Cut(pair, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("invalid variable %q: expected NAME=value", pair)
	}
	if e.Local == nil {
		e.Local = Map{}
	}
	e.Local[name] = value
	return nil
}
