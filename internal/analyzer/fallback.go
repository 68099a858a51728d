package analyzer

import (
	"regexp"
	"strings"

	"codewhisper/internal/models"
)

// categoryPattern pairs a category name with the regex that detects it. The
// patterns are evaluated independently: several categories may match one
// query and each contributes its first matched substring to the tech stack.
type categoryPattern struct {
	category string
	re       *regexp.Regexp
}

var categoryPatterns = []categoryPattern{
	{"auth", regexp.MustCompile(`auth|login|signup|password|token|jwt|session|oauth|credentials`)},
	{"performance", regexp.MustCompile(`slow|lag|timeout|performance|optimize|speed|bottleneck|latency`)},
	{"bugs", regexp.MustCompile(`bug|error|crash|fail|break|issue|exception|throw`)},
	{"memory", regexp.MustCompile(`memory|leak|heap|garbage|allocation`)},
	{"frontend", regexp.MustCompile(`react|vue|angular|next|svelte|ui|component|css|html|dom`)},
	{"backend", regexp.MustCompile(`api|server|database|query|endpoint|route|middleware|express`)},
	{"build", regexp.MustCompile(`build|compile|webpack|turbopack|vite|bundle|deploy|bundler`)},
	{"testing", regexp.MustCompile(`test|testing|jest|cypress|playwright|unit|integration`)},
	{"database", regexp.MustCompile(`sql|postgres|mysql|mongodb|redis|prisma|orm|query`)},
}

var (
	punctuation = regexp.MustCompile(`[^\w\s]`)
	stopWords   = map[string]bool{"this": true, "that": true, "with": true, "from": true}
)

// Fallback is the deterministic query classifier used when the AI
// collaborator is unavailable or returns garbage.
func Fallback(query string) *models.QueryProfile {
	lower := strings.ToLower(query)

	var categories []string
	var techStack []string
	for _, p := range categoryPatterns {
		if match := p.re.FindString(lower); match != "" {
			categories = append(categories, p.category)
			techStack = append(techStack, match)
		}
	}

	uniqueStack := dedupe(techStack)

	intent := models.IntentGeneral
	if len(categories) > 0 {
		intent = categories[0]
	}

	severity := models.SeverityMedium
	for _, match := range uniqueStack {
		if match == "crash" || match == "critical" {
			severity = models.SeverityHigh
			break
		}
	}

	keywords := uniqueStack
	if len(keywords) > 5 {
		keywords = keywords[:5]
	}

	return &models.QueryProfile{
		Intent:      intent,
		Keywords:    keywords,
		TechStack:   uniqueStack,
		SearchTerms: searchTerms(lower),
		Severity:    severity,
	}
}

// searchTerms strips punctuation, stop words and short words from the query,
// falling back to the raw lowercased query when nothing survives.
func searchTerms(lower string) string {
	cleaned := punctuation.ReplaceAllString(lower, "")

	var kept []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) > 3 && !stopWords[word] {
			kept = append(kept, word)
		}
	}
	if len(kept) == 0 {
		return lower
	}
	return strings.Join(kept, " ")
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
