package utils

import "strings"

func AssertInvariant(condition bool, message string) {
	if !condition {
		panic("invariant violated - " + message)
	}
}

// SummaryLen is the maximum length of a comment body summary used in logs.
const SummaryLen = 50

// SummarizeBody collapses a comment body to a single short log-friendly line.
func SummarizeBody(body string) string {
	summary := body
	if len(summary) > SummaryLen {
		summary = summary[:SummaryLen]
	}
	summary = strings.ReplaceAll(summary, "\n", " ")
	if len(body) > SummaryLen {
		summary += "..."
	}
	return summary
}
