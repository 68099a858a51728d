package predictor

import (
	"testing"

	"codewhisper/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		excerpt string
		want    string
	}{
		{"upgrade", "please upgrade lodash to fix this, thanks!", models.StrategyUpgradeDependency},
		{"update counts as upgrade", "you should Update the package", models.StrategyUpgradeDependency},
		{"downgrade", "I had to downgrade to 2.1 to make it work", models.StrategyDowngradeDependency},
		{"config", "change the config flag in webpack", models.StrategyConfigurationChange},
		{"setting", "toggle the setting under preferences", models.StrategyConfigurationChange},
		{"workaround", "a workaround is to restart the daemon", models.StrategyWorkaround},
		{"hack", "ugly hack but it works", models.StrategyWorkaround},
		{"code fence", "try this:\n```js\nfoo()\n```", models.StrategyCodeFix},
		{"general", "I restarted the machine and it helped", models.StrategyGeneralFix},
		{"empty", "", models.StrategyGeneralFix},
		// First match wins: "upgrade" appears before the code fence rule.
		{"upgrade beats code fence", "upgrade first:\n```sh\nnpm i\n```", models.StrategyUpgradeDependency},
		// "config" is checked before "workaround".
		{"config beats workaround", "config workaround", models.StrategyConfigurationChange},
		{"case insensitive", "UPGRADE EVERYTHING", models.StrategyUpgradeDependency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.excerpt); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.excerpt, got, tt.want)
			}
		})
	}
}

func TestGroupSolutions_DiscoveryOrderAndSignalAccumulation(t *testing.T) {
	analyses := []*models.IssueAnalysis{
		{
			IssueNumber:  1,
			Title:        "first",
			URL:          "https://example.com/1",
			SuccessCount: 2,
			FailureCount: 1,
			Solutions: []models.CommentEvidence{
				{Body: "just restart, long enough comment to qualify as evidence here"},
				{Body: "upgrade the dependency"},
			},
		},
		{
			IssueNumber:  2,
			Title:        "second",
			URL:          "https://example.com/2",
			SuccessCount: 1,
			FailureCount: 0,
			Solutions: []models.CommentEvidence{
				{Body: "upgrade to latest"},
			},
		},
	}

	groups := groupSolutions(analyses)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}

	// Discovery order: general_fix was seen before upgrade_dependency.
	if groups[0].Label != models.StrategyGeneralFix {
		t.Errorf("groups[0] = %q, want %q", groups[0].Label, models.StrategyGeneralFix)
	}
	if groups[1].Label != models.StrategyUpgradeDependency {
		t.Errorf("groups[1] = %q, want %q", groups[1].Label, models.StrategyUpgradeDependency)
	}

	upgrade := groups[1]
	if upgrade.Trials != 2 {
		t.Errorf("upgrade trials = %d, want 2", upgrade.Trials)
	}
	// Issue 1 contributes its whole signal to each group it has an excerpt
	// in; issue 2 adds one more success.
	if upgrade.SuccessCount != 3 || upgrade.FailureCount != 1 {
		t.Errorf("upgrade signal = %d/%d, want 3/1", upgrade.SuccessCount, upgrade.FailureCount)
	}
	if len(upgrade.Evidence) != 2 || upgrade.Evidence[0].Issue != 1 || upgrade.Evidence[1].Issue != 2 {
		t.Errorf("unexpected evidence %+v", upgrade.Evidence)
	}
}

// An issue contributing several excerpts to the same group adds its signal
// once per excerpt. This mirrors the observed accumulation semantics exactly,
// even though it over-weights chatty issues.
func TestGroupSolutions_SignalCountedPerExcerpt(t *testing.T) {
	analyses := []*models.IssueAnalysis{
		{
			IssueNumber:  7,
			SuccessCount: 1,
			FailureCount: 1,
			Solutions: []models.CommentEvidence{
				{Body: "upgrade package A"},
				{Body: "upgrade package B"},
				{Body: "upgrade package C"},
			},
		},
	}

	groups := groupSolutions(analyses)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	g := groups[0]
	if g.SuccessCount != 3 || g.FailureCount != 3 || g.Trials != 3 {
		t.Errorf("signal = %d/%d trials=%d, want 3/3 trials=3", g.SuccessCount, g.FailureCount, g.Trials)
	}
}

func TestRankGroups_SuccessRateAndDefaults(t *testing.T) {
	groups := []*models.SolutionGroup{
		{Label: models.StrategyGeneralFix, SuccessCount: 0, FailureCount: 0, Trials: 1},
		{Label: models.StrategyUpgradeDependency, SuccessCount: 3, FailureCount: 1, Trials: 4},
		{Label: models.StrategyWorkaround, SuccessCount: 1, FailureCount: 3, Trials: 2},
	}

	predictions := rankGroups(groups)
	if len(predictions) != 3 {
		t.Fatalf("got %d predictions, want 3", len(predictions))
	}

	if predictions[0].Label != "UPGRADE DEPENDENCY" || predictions[0].SuccessRate != 0.75 {
		t.Errorf("predictions[0] = %q %.2f, want UPGRADE DEPENDENCY 0.75", predictions[0].Label, predictions[0].SuccessRate)
	}
	// Zero-signal groups default to exactly 0.5.
	if predictions[1].Label != "GENERAL FIX" || predictions[1].SuccessRate != 0.5 {
		t.Errorf("predictions[1] = %q %.2f, want GENERAL FIX 0.50", predictions[1].Label, predictions[1].SuccessRate)
	}
	if predictions[2].SuccessRate != 0.25 {
		t.Errorf("predictions[2].SuccessRate = %.2f, want 0.25", predictions[2].SuccessRate)
	}

	for _, p := range predictions {
		if p.SuccessRate < 0 || p.SuccessRate > 1 {
			t.Errorf("%s: success rate %.2f outside [0,1]", p.Label, p.SuccessRate)
		}
	}
}

func TestRankGroups_ConfidenceBoundaries(t *testing.T) {
	tests := []struct {
		trials int
		want   string
	}{
		{1, models.ConfidenceLow},
		{2, models.ConfidenceMedium},
		{3, models.ConfidenceMedium},
		{4, models.ConfidenceHigh},
	}

	for _, tt := range tests {
		groups := []*models.SolutionGroup{{Label: models.StrategyCodeFix, Trials: tt.trials}}
		got := rankGroups(groups)[0].Confidence
		if got != tt.want {
			t.Errorf("trials=%d: confidence = %q, want %q", tt.trials, got, tt.want)
		}
	}
}

func TestRankGroups_Truncation(t *testing.T) {
	groups := make([]*models.SolutionGroup, 0, 6)
	for _, label := range []string{
		models.StrategyUpgradeDependency,
		models.StrategyDowngradeDependency,
		models.StrategyConfigurationChange,
		models.StrategyWorkaround,
		models.StrategyCodeFix,
		models.StrategyGeneralFix,
	} {
		evidence := make([]models.EvidenceRef, 5)
		groups = append(groups, &models.SolutionGroup{Label: label, Trials: 1, Evidence: evidence})
	}

	predictions := rankGroups(groups)
	if len(predictions) != 5 {
		t.Errorf("got %d predictions, want 5", len(predictions))
	}
	for _, p := range predictions {
		if len(p.Evidence) > 3 {
			t.Errorf("%s: %d evidence entries, want at most 3", p.Label, len(p.Evidence))
		}
	}
}

// Ties keep discovery order: the sort must be stable so re-running the same
// corpus yields an identical ranking.
func TestRankGroups_StableTieBreak(t *testing.T) {
	groups := []*models.SolutionGroup{
		{Label: models.StrategyWorkaround, SuccessCount: 1, FailureCount: 1, Trials: 1},
		{Label: models.StrategyCodeFix, SuccessCount: 2, FailureCount: 2, Trials: 1},
		{Label: models.StrategyGeneralFix, SuccessCount: 0, FailureCount: 0, Trials: 1},
	}

	for run := 0; run < 5; run++ {
		predictions := rankGroups(groups)
		want := []string{"WORKAROUND", "CODE FIX", "GENERAL FIX"}
		for i, label := range want {
			if predictions[i].Label != label {
				t.Fatalf("run %d: predictions[%d] = %q, want %q", run, i, predictions[i].Label, label)
			}
		}
	}
}
