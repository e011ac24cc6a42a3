package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/jafonso/vision-doc-classifier/internal/core"
)

// Google Vision pricing for label/text detection, USD per 1000 requests.
const costPerThousandCalls = 1.50

type tagCount struct {
	Tag   string
	Count int
}

// Render writes a human-readable summary of a classified email collection.
func Render(w io.Writer, collection *core.EmailCollection) {
	stats := collection.Metadata.Stats
	if stats == nil {
		stats = &core.ClassificationStats{}
	}

	emailsWithImages := 0
	for _, email := range collection.Emails {
		for _, att := range email.Attachments {
			if att.IsImage() {
				emailsWithImages++
				break
			}
		}
	}

	fmt.Fprintf(w, "\n=== Classification Report ===\n")
	fmt.Fprintf(w, "Total emails processed: %d\n", collection.Metadata.TotalEmails)
	fmt.Fprintf(w, "Emails with images: %d\n", emailsWithImages)
	fmt.Fprintf(w, "Images classified: %d\n", stats.TotalImages)
	fmt.Fprintf(w, "External analysis calls: %d\n", stats.APICalls)
	if stats.APICalls == 0 {
		fmt.Fprintf(w, "No billable analysis calls were made\n")
	} else {
		fmt.Fprintf(w, "Estimated analysis cost: $%.2f\n",
			float64(stats.APICalls)/1000*costPerThousandCalls)
	}

	counts := sortedTagCounts(stats.TagCounts)
	totalTags := 0
	for _, tc := range counts {
		totalTags += tc.Count
	}

	fmt.Fprintf(w, "\n=== Tag Distribution ===\n")
	for _, tc := range counts {
		percentage := 0.0
		if totalTags > 0 {
			percentage = float64(tc.Count) / float64(totalTags) * 100
		}
		fmt.Fprintf(w, "%-28s %4d (%5.1f%%)\n", tc.Tag, tc.Count, percentage)
	}
	fmt.Fprintf(w, "Total tags assigned: %d\n", totalTags)

	manual := stats.TagCounts[core.TagRevisaoManual]
	if totalTags > 0 {
		efficacy := float64(totalTags-manual) / float64(totalTags) * 100
		fmt.Fprintf(w, "Classification efficacy: %.1f%%\n", efficacy)
		if float64(manual) > float64(totalTags)*0.3 {
			fmt.Fprintf(w, "Warning: %d attachments need manual review\n", manual)
		}
	}

	top := counts
	if len(top) > 5 {
		top = top[:5]
	}
	if len(top) > 0 {
		fmt.Fprintf(w, "\n=== Most Common Tags ===\n")
		for i, tc := range top {
			fmt.Fprintf(w, "%d. %s: %d\n", i+1, tc.Tag, tc.Count)
		}
	}
}

// sortedTagCounts orders tags by count descending, tie-broken by name, so
// reports are deterministic across runs.
func sortedTagCounts(tagCounts map[string]int) []tagCount {
	counts := make([]tagCount, 0, len(tagCounts))
	for tag, count := range tagCounts {
		counts = append(counts, tagCount{Tag: tag, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Tag < counts[j].Tag
	})
	return counts
}
