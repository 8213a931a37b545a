package feedback

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/caremesh/caremesh/core"
)

// maxTopIssues bounds the issue list on an analysis.
const maxTopIssues = 5

// maxGapQueryBytes bounds the customer message quoted in a knowledge-gap flag.
const maxGapQueryBytes = 100

// trendDelta is the half-average difference below which a series counts as
// stable.
const trendDelta = 0.1

// analyzeSentimentTrend compares the first-half average of the score series
// against the second-half average. Fewer than two samples give no trend.
func analyzeSentimentTrend(scores []float64) string {
	if len(scores) < 2 {
		return ""
	}
	mid := len(scores) / 2
	first := mean(scores[:mid])
	second := mean(scores[mid:])

	diff := second - first
	switch {
	case diff > trendDelta:
		return "improving"
	case diff < -trendDelta:
		return "declining"
	default:
		return "stable"
	}
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// extractTopIssues counts resolved intents, ignoring the unknown fallback,
// and returns the most frequent ones. Ties break alphabetically so the
// result is deterministic.
func extractTopIssues(intents []string, max int) []string {
	counts := make(map[string]int)
	for _, intent := range intents {
		if intent == "" || intent == "unknown" {
			continue
		}
		counts[intent]++
	}

	issues := make([]string, 0, len(counts))
	for intent := range counts {
		issues = append(issues, intent)
	}
	sort.Slice(issues, func(i, j int) bool {
		if counts[issues[i]] != counts[issues[j]] {
			return counts[issues[i]] > counts[issues[j]]
		}
		return issues[i] < issues[j]
	})

	if len(issues) > max {
		issues = issues[:max]
	}
	return issues
}

// detectKnowledgeGaps flags unresolved intents in the conversation snapshot:
// repeated unknown/unclear classifications suggest the knowledge base lacks
// coverage for what the customer is asking.
func detectKnowledgeGaps(snapshot core.InteractionSnapshot) []string {
	unresolved := 0
	for _, intent := range snapshot.PreviousIntents {
		if core.IsUnresolvedIntent(intent) {
			unresolved++
		}
	}
	if core.IsUnresolvedIntent(snapshot.Intent) {
		unresolved++
	}

	var gaps []string
	if unresolved > 0 {
		gaps = append(gaps, fmt.Sprintf("%d interactions with unresolved intent", unresolved))
	}
	if core.IsUnresolvedIntent(snapshot.Intent) && snapshot.CustomerMessage != "" {
		msg := snapshot.CustomerMessage
		if len(msg) > maxGapQueryBytes {
			// Back up to a rune boundary so multi-byte text is never cut
			// mid-rune.
			cut := maxGapQueryBytes
			for cut > 0 && !utf8.RuneStart(msg[cut]) {
				cut--
			}
			msg = msg[:cut]
		}
		gaps = append(gaps, fmt.Sprintf("Low-confidence query: %q", msg))
	}
	return gaps
}
