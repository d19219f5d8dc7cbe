package common

import (
	"net/url"
	"regexp"
	"strings"
)

const maskedValue = "***MASKED***"

// SensitivePattern describes one kind of secret that may appear in node
// endpoints or flag values.
type SensitivePattern struct {
	Name        string
	Regex       *regexp.Regexp
	Replacement string
	Keys        []string // attribute keys masked outright (case-insensitive)
}

// DefaultSensitivePatterns covers what typically leaks through node client
// flags: credentials embedded in RPC URLs, provider api keys in query
// strings, and keyring passphrases.
var DefaultSensitivePatterns = []SensitivePattern{
	{
		Name:        "url_userinfo",
		Regex:       regexp.MustCompile(`(?i)([a-z][a-z0-9+.-]*://)[^/@\s:]+:[^/@\s]+@`),
		Replacement: "${1}" + maskedValue + "@",
	},
	{
		Name:        "query_secret",
		Regex:       regexp.MustCompile(`(?i)([?&](?:api[_-]?key|apikey|key|token|access[_-]?token)=)[^&\s]+`),
		Replacement: "${1}" + maskedValue,
	},
	{
		Name:        "passphrase_flag",
		Regex:       regexp.MustCompile(`(?i)(--(?:keyring-passphrase|passphrase|password)[=\s]+)\S+`),
		Replacement: "${1}" + maskedValue,
		Keys:        []string{"passphrase", "keyring_passphrase", "password"},
	},
	{
		Name:        "mnemonic",
		Regex:       regexp.MustCompile(`(?i)(mnemonic["'\s]*[:=]["'\s]*)[^"',}\]\n]+`),
		Replacement: "${1}" + maskedValue,
		Keys:        []string{"mnemonic", "seed"},
	},
}

// Masker rewrites secrets out of log values
type Masker struct {
	patterns []SensitivePattern
	enabled  bool
}

// NewMasker creates a new masker with default patterns
func NewMasker() *Masker {
	return &Masker{patterns: DefaultSensitivePatterns, enabled: true}
}

// SetEnabled enables or disables masking
func (m *Masker) SetEnabled(enabled bool) {
	m.enabled = enabled
}

// IsEnabled returns whether masking is enabled
func (m *Masker) IsEnabled() bool {
	return m.enabled
}

// MaskString masks sensitive information in a string
func (m *Masker) MaskString(input string) string {
	if !m.enabled || input == "" {
		return input
	}
	out := input
	for _, p := range m.patterns {
		out = p.Regex.ReplaceAllString(out, p.Replacement)
	}
	return out
}

// MaskValue masks value outright when key names a secret, otherwise applies
// the string patterns. Non-string values are returned as-is.
func (m *Masker) MaskValue(key string, value any) any {
	if !m.enabled {
		return value
	}
	lower := strings.ToLower(key)
	for _, p := range m.patterns {
		for _, k := range p.Keys {
			if lower == k {
				return maskedValue
			}
		}
	}
	if s, ok := value.(string); ok {
		return m.MaskString(s)
	}
	return value
}

// MaskURL replaces the userinfo of a URL, user name included. Input without
// userinfo, or that does not parse, goes through the string patterns.
func (m *Masker) MaskURL(raw string) string {
	if !m.enabled {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.User == nil || u.Scheme == "" {
		return m.MaskString(raw)
	}
	u.User = nil
	s := u.String()
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[:i+3] + maskedValue + "@" + s[i+3:]
	}
	return m.MaskString(s)
}

// MaskArgs masks a node client argument vector. The value following a
// sensitive flag is replaced as a whole.
func (m *Masker) MaskArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = m.MaskString(a)
	}
	if !m.enabled {
		return out
	}
	for i := 0; i < len(out)-1; i++ {
		switch out[i] {
		case "--keyring-passphrase", "--passphrase", "--password":
			out[i+1] = maskedValue
		}
	}
	return out
}

var globalMasker = NewMasker()

// GetGlobalMasker returns the global masker instance
func GetGlobalMasker() *Masker {
	return globalMasker
}

// MaskSensitiveData masks sensitive data using the global masker
func MaskSensitiveData(input string) string {
	return globalMasker.MaskString(input)
}

// EnableMasking enables/disables global masking
func EnableMasking(enabled bool) {
	globalMasker.SetEnabled(enabled)
}
