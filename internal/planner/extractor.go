package planner

import (
	"strings"

	"github.com/custodia-labs/habitplan/internal/core/domain"
)

// ExtractPlans splits an assistant response into habit sections and
// extracts the plan of each. Sections without plan lines are dropped.
func ExtractPlans(text string) []domain.PlanItem {
	sections := SplitSections(text)
	plans := make([]domain.PlanItem, 0, len(sections))
	for _, section := range sections {
		if plan, ok := ExtractPlan(section); ok {
			plans = append(plans, plan)
		}
	}
	return plans
}

// ExtractPlan isolates the actionable lines of one habit section.
//
// Lines before the first list item are restated principle prose and are
// skipped. The first list item opens the plan region; from then on plain
// lines are continuations of the previous item. The analysis appendix
// (思路链, 洞察, 荟萃分析) or a horizontal rule ends the section, as does a
// new heading inside the plan region.
func ExtractPlan(section domain.HabitSection) (domain.PlanItem, bool) {
	plan := domain.PlanItem{HabitName: section.HabitName}

	inPlan := false
	seenFirst := false

	for _, raw := range strings.Split(normaliseNewlines(section.RawBody), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			// Blank lines never end the plan region; they are collapsed.
			continue
		}

		body := stripQuote(line)
		marker, payload, isItem := splitMarker(body)

		if !seenFirst {
			seenFirst = true
			if !isItem && endsWithColon(body) {
				// Restated habit name, e.g. "积极主动：".
				continue
			}
		}

		if isTerminator(body) {
			break
		}

		if isItem {
			text := cleanInline(payload)
			if text == "" {
				continue
			}
			inPlan = true
			plan.Lines = append(plan.Lines, marker+text)
			continue
		}

		if !inPlan {
			continue
		}
		if strings.HasPrefix(body, "#") {
			break
		}
		if text := cleanInline(body); text != "" {
			plan.Lines = append(plan.Lines, text)
		}
	}

	if len(plan.Lines) == 0 {
		return domain.PlanItem{}, false
	}
	return plan, true
}
