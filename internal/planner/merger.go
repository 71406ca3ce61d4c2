package planner

import (
	"strings"

	"github.com/custodia-labs/habitplan/internal/core/domain"
)

// MergeOptions configures MergePlans.
type MergeOptions struct {
	// FallbackText is appended when there are no plans at all, so an upvote
	// always leaves a visible trace. Defaults to domain.DefaultFallbackText.
	FallbackText string
}

// ExtractAndMergePlans extracts plans from an assistant response and merges
// them into existing document content using the default options.
func ExtractAndMergePlans(assistantText, existingContent string) domain.MergeResult {
	return MergePlans(ExtractPlans(assistantText), existingContent, MergeOptions{})
}

// MergePlans appends the plans that are not yet recorded in existing.
//
// A plan counts as recorded when its first plan line already occurs
// anywhere in the existing content or in a plan kept earlier in the same
// batch. Near-duplicates with different wording are appended. When nothing
// was extracted the fallback text is appended instead. When every plan is
// already recorded the content is returned unchanged.
func MergePlans(plans []domain.PlanItem, existing string, opts MergeOptions) domain.MergeResult {
	result := domain.MergeResult{NewContent: existing}
	trimmed := strings.TrimSpace(existing)

	if len(plans) == 0 {
		fallback := opts.FallbackText
		if fallback == "" {
			fallback = domain.DefaultFallbackText
		}
		result.NewContent = appendBlocks(trimmed, []string{fallback})
		result.Fallback = true
		return result
	}

	seen := trimmed
	kept := make([]string, 0, len(plans))
	for _, plan := range plans {
		key := plan.FirstLine()
		if key == "" {
			continue
		}
		if strings.Contains(seen, key) {
			result.Skipped++
			continue
		}
		block := plan.String()
		kept = append(kept, block)
		seen += "\n" + block
	}

	if len(kept) == 0 {
		return result
	}

	result.NewContent = appendBlocks(trimmed, kept)
	result.AppendedCount = len(kept)
	return result
}

// appendBlocks joins blocks onto content with blank-line separators.
func appendBlocks(content string, blocks []string) string {
	joined := strings.Join(blocks, "\n\n")
	if content == "" {
		return joined
	}
	return content + "\n\n" + joined
}
