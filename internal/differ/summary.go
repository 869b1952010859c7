package differ

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffSummarizer renders a human-readable, line-oriented diff between two
// content versions, capped at maxLines lines so notification payloads stay
// within transport limits.
type DiffSummarizer struct {
	dmp      *diffmatchpatch.DiffMatchPatch
	maxLines int
}

// NewDiffSummarizer creates a new diff summarizer.
func NewDiffSummarizer(maxLines int) *DiffSummarizer {
	return &DiffSummarizer{
		dmp:      diffmatchpatch.New(),
		maxLines: maxLines,
	}
}

// Summarize produces a unified-diff-style rendering of the change: removed
// lines prefixed with "-", added lines with "+". Unchanged runs are elided.
func (ds *DiffSummarizer) Summarize(previous, current string) string {
	if previous == current {
		return ""
	}

	// Line-mode diff: map lines to runes, diff, then map back.
	prevRunes, currRunes, lineArray := ds.dmp.DiffLinesToRunes(previous, current)
	diffs := ds.dmp.DiffMainRunes(prevRunes, currRunes, false)
	diffs = ds.dmp.DiffCharsToLines(diffs, lineArray)
	diffs = ds.dmp.DiffCleanupSemantic(diffs)

	var out []string
	truncated := false

	for _, diff := range diffs {
		var prefix string
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		default:
			continue
		}

		for _, line := range strings.Split(diff.Text, "\n") {
			line = strings.TrimRight(line, "\r")
			if line == "" {
				continue
			}
			if len(out) >= ds.maxLines {
				truncated = true
				break
			}
			out = append(out, prefix+line)
		}
		if truncated {
			break
		}
	}

	if len(out) == 0 {
		return ""
	}
	if truncated {
		out = append(out, "... (diff truncated)")
	}
	return strings.Join(out, "\n")
}
