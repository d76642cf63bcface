// Package portgroup partitions a parsed Module's ports into candidate bus
// groups by inferred common prefix, setting aside clock/reset ports and
// unclassifiable leftovers (spec §4.4).
package portgroup

import "strings"

// wellKnownRoots are single-token bus roots the grouper accepts as a group
// key on their own, without needing a second shared token (spec §4.4).
var wellKnownRoots = map[string]bool{
	"AXI": true, "APB": true, "AHB": true, "CHI": true,
	"DFI": true, "ACE": true, "ATB": true,
}

// Tokenize splits a port name on underscores and CamelCase word
// boundaries, returning upper-cased tokens for comparison (spec §4.4).
func Tokenize(name string) []string {
	var tokens []string
	for _, part := range strings.Split(name, "_") {
		for _, w := range splitCamel(part) {
			if w != "" {
				tokens = append(tokens, strings.ToUpper(w))
			}
		}
	}
	return tokens
}

func splitCamel(s string) []string {
	if s == "" {
		return nil
	}
	runes := []rune(s)
	var out []string
	start := 0
	for i := 1; i < len(runes); i++ {
		if isLowerRune(runes[i-1]) && isUpperRune(runes[i]) {
			out = append(out, string(runes[start:i]))
			start = i
		}
	}
	out = append(out, string(runes[start:]))
	return out
}

func isLowerRune(r rune) bool { return r >= 'a' && r <= 'z' }
func isUpperRune(r rune) bool { return r >= 'A' && r <= 'Z' }

// Prefixes returns every prefix of tokens joined by "_", shortest first,
// from length 1 up to and including the full token sequence (spec §4.4).
// A port's trailing direction/instance suffix (`_o`, `_i`, `_0`..`_9`) is
// never a distinguished case here: it simply falls out as the last token,
// so the suffix-stripped name is already present among these prefixes,
// matching §4.4's note that such ports "contribute the suffix-stripped
// prefix as an additional candidate."
func Prefixes(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for i := 1; i <= len(tokens); i++ {
		out = append(out, strings.Join(tokens[:i], "_"))
	}
	return out
}

// Suffixes returns every trailing subsequence of tokens joined by "_",
// longest first, used by the matcher to align a physical port name
// against a logical port name (spec §4.5).
func Suffixes(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		out = append(out, strings.Join(tokens[i:], "_"))
	}
	return out
}

// IsWellKnownRoot reports whether a single upper-cased token is a
// recognized bus root allowed to form a one-token group key on its own.
func IsWellKnownRoot(token string) bool { return wellKnownRoots[token] }

// ClockResetKind classifies a port name recognized as a dedicated
// clock/reset signal rather than a bus member (spec §4.4).
type ClockResetKind int

const (
	NotClockReset ClockResetKind = iota
	KindClock
	KindReset
)

// ClassifyClockReset checks name (underscore-insensitive, case-insensitive)
// against the fixed clock/reset name list from spec §4.4.
func ClassifyClockReset(name string) ClockResetKind {
	u := strings.ToUpper(strings.ReplaceAll(name, "_", ""))
	switch u {
	case "CLK", "CLOCK", "ACLK":
		return KindClock
	case "RST", "RSTN", "RESET", "ARESETN":
		return KindReset
	default:
		return NotClockReset
	}
}

// Polarity reports whether a reset-classified port name indicates active
// low (trailing `_n`/`n`) per §4.5's clock/reset parameter convention.
func Polarity(name string) string {
	u := strings.ToUpper(name)
	if strings.HasSuffix(u, "_N") || strings.HasSuffix(u, "N") && !strings.HasSuffix(u, "RESET") {
		return "ACTIVE_LOW"
	}
	return "ACTIVE_HIGH"
}
