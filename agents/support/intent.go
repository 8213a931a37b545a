package support

import (
	"strings"
)

// Intent labels recognized by the classifier. "general_inquiry" is the
// fallback when keywords match nothing; "unknown" is reserved for absent
// generator output and never produced here.
var intentKeywords = map[string][]string{
	"billing_inquiry":     {"bill", "billing", "invoice", "charge", "charged", "payment", "overcharged"},
	"technical_support":   {"error", "bug", "crash", "broken", "not working", "doesn't work", "troubleshoot", "issue", "problem"},
	"account_management":  {"password", "login", "account settings", "profile", "email address", "update my account", "change my"},
	"product_information": {"product", "feature", "plan", "pricing", "price", "does it support", "specification"},
	"complaint":           {"complaint", "terrible", "awful", "unacceptable", "disappointed", "worst", "horrible"},
	"feedback":            {"feedback", "suggestion", "suggest", "improve", "love the", "great service"},
	"escalation_request":  {"human", "agent", "manager", "supervisor", "escalate", "representative"},
	"greeting":            {"hello", "hi ", "hey", "good morning", "good afternoon", "good evening"},
	"farewell":            {"bye", "goodbye", "thanks, that's all", "that is all", "see you"},
	"order_status":        {"order", "shipment", "delivery", "tracking", "shipped", "where is my"},
	"cancellation":        {"cancel", "cancellation", "terminate", "close my account", "unsubscribe"},
	"refund_request":      {"refund", "money back", "reimburse", "return my money"},
}

// classificationOrder fixes the tie-break order so classification is
// deterministic regardless of map iteration.
var classificationOrder = []string{
	"escalation_request",
	"refund_request",
	"cancellation",
	"billing_inquiry",
	"order_status",
	"technical_support",
	"account_management",
	"complaint",
	"product_information",
	"feedback",
	"greeting",
	"farewell",
}

// classifyIntent scores each intent by keyword hits and returns the winner
// with a confidence proportional to its share of total hits. No hits at all
// classifies as general_inquiry with zero confidence.
func classifyIntent(message string) (string, float64) {
	lower := strings.ToLower(message)

	best := ""
	bestHits := 0
	total := 0
	for _, intent := range classificationOrder {
		hits := 0
		for _, kw := range intentKeywords[intent] {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		total += hits
		if hits > bestHits {
			best = intent
			bestHits = hits
		}
	}

	if bestHits == 0 {
		return "general_inquiry", 0
	}
	return best, float64(bestHits) / float64(total)
}
