// Package kafka holds shared helpers for the franz-go producer and consumer wrappers.
package kafka

import "strings"

// SplitBrokers turns a comma separated broker list into seed addresses,
// dropping blanks.
func SplitBrokers(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
