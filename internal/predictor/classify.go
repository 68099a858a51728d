package predictor

import (
	"sort"
	"strings"

	"codewhisper/internal/models"
)

// classificationRule maps a textual predicate to a strategy label. The rules
// are evaluated in order and the first match wins, so rule order is part of
// the classification semantics.
type classificationRule struct {
	label string
	match func(text string) bool
}

func containsAny(substrings ...string) func(string) bool {
	return func(text string) bool {
		for _, s := range substrings {
			if strings.Contains(text, s) {
				return true
			}
		}
		return false
	}
}

var classificationRules = []classificationRule{
	{models.StrategyUpgradeDependency, containsAny("upgrade", "update")},
	{models.StrategyDowngradeDependency, containsAny("downgrade")},
	{models.StrategyConfigurationChange, containsAny("config", "setting")},
	{models.StrategyWorkaround, containsAny("workaround", "hack")},
	{models.StrategyCodeFix, containsAny("```")},
}

// Classify assigns a strategy label to a solution excerpt. It is a pure
// function of the excerpt text.
func Classify(excerpt string) string {
	text := strings.ToLower(excerpt)
	for _, rule := range classificationRules {
		if rule.match(text) {
			return rule.label
		}
	}
	return models.StrategyGeneralFix
}

// groupSolutions clusters all solution excerpts into strategy groups,
// preserving first-discovery order. Each contributing excerpt adds the whole
// issue's success/failure counts to its group, so an issue with several
// excerpts contributes its signal once per excerpt.
func groupSolutions(analyses []*models.IssueAnalysis) []*models.SolutionGroup {
	byLabel := make(map[string]*models.SolutionGroup)
	var order []*models.SolutionGroup

	for _, analysis := range analyses {
		for _, solution := range analysis.Solutions {
			label := Classify(solution.Body)

			group, ok := byLabel[label]
			if !ok {
				group = &models.SolutionGroup{Label: label}
				byLabel[label] = group
				order = append(order, group)
			}

			group.SuccessCount += analysis.SuccessCount
			group.FailureCount += analysis.FailureCount
			group.Trials++
			group.Evidence = append(group.Evidence, models.EvidenceRef{
				Issue: analysis.IssueNumber,
				Link:  analysis.URL,
				Title: analysis.Title,
			})
		}
	}
	return order
}

// rankGroups derives predictions from the groups, sorted by success rate
// descending with ties broken by discovery order, truncated to maxPredictions.
func rankGroups(groups []*models.SolutionGroup) []models.Prediction {
	predictions := make([]models.Prediction, 0, len(groups))
	for _, group := range groups {
		rate := 0.5
		if denom := group.SuccessCount + group.FailureCount; denom > 0 {
			rate = float64(group.SuccessCount) / float64(denom)
		}

		confidence := models.ConfidenceLow
		switch {
		case group.Trials > 3:
			confidence = models.ConfidenceHigh
		case group.Trials > 1:
			confidence = models.ConfidenceMedium
		}

		evidence := group.Evidence
		if len(evidence) > maxEvidence {
			evidence = evidence[:maxEvidence]
		}

		predictions = append(predictions, models.Prediction{
			Label:        displayLabel(group.Label),
			SuccessCount: group.SuccessCount,
			FailureCount: group.FailureCount,
			Trials:       group.Trials,
			SuccessRate:  rate,
			Confidence:   confidence,
			Evidence:     evidence,
		})
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].SuccessRate > predictions[j].SuccessRate
	})
	if len(predictions) > maxPredictions {
		predictions = predictions[:maxPredictions]
	}
	return predictions
}

// displayLabel renders a strategy tag for humans: "upgrade_dependency"
// becomes "UPGRADE DEPENDENCY".
func displayLabel(label string) string {
	return strings.ToUpper(strings.ReplaceAll(label, "_", " "))
}
