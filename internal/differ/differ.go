package differ

import (
	"crypto/sha256"
	"fmt"

	"pagewatcher/internal/models"

	"github.com/rs/zerolog"
)

// CompareOutcome classifies the result of comparing fresh content against the
// stored snapshot.
type CompareOutcome int

const (
	// Unchanged means the normalized content matches the stored fingerprint.
	Unchanged CompareOutcome = iota
	// Changed means the content differs; a diff summary is available.
	Changed
	// NoBaseline means no prior snapshot exists; the caller should store the
	// first snapshot silently, without notifying.
	NoBaseline
)

// String returns the outcome name used in logs.
func (o CompareOutcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Changed:
		return "changed"
	case NoBaseline:
		return "no_baseline"
	default:
		return "unknown"
	}
}

// CompareResult carries the outcome of a comparison plus the fingerprint of
// the current normalized content. Summary is only set for Changed.
type CompareResult struct {
	Outcome     CompareOutcome
	Fingerprint string
	Summary     string
}

// Engine decides whether normalized content constitutes a meaningful change
// relative to a stored snapshot.
type Engine struct {
	logger       zerolog.Logger
	summarizer   *DiffSummarizer
	maxDiffLines int
}

// NewEngine creates a new diff engine. maxDiffLines bounds the rendered diff
// summary attached to change notifications.
func NewEngine(logger zerolog.Logger, maxDiffLines int) *Engine {
	if maxDiffLines <= 0 {
		maxDiffLines = 100
	}
	return &Engine{
		logger:       logger.With().Str("component", "DiffEngine").Logger(),
		summarizer:   NewDiffSummarizer(maxDiffLines),
		maxDiffLines: maxDiffLines,
	}
}

// Fingerprint computes the deterministic digest of normalized content.
// Identical input always yields an identical fingerprint.
func Fingerprint(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", sum)
}

// Compare evaluates normalized content against the previous snapshot.
// A nil previous snapshot yields NoBaseline. Equal fingerprints yield
// Unchanged. Otherwise the result is Changed with a trimmed line-diff
// summary rendered from the stored content.
func (e *Engine) Compare(previous *models.Snapshot, normalized string) CompareResult {
	fingerprint := Fingerprint(normalized)

	if previous == nil {
		e.logger.Debug().Str("fingerprint", fingerprint).Msg("No baseline snapshot, establishing first version")
		return CompareResult{Outcome: NoBaseline, Fingerprint: fingerprint}
	}

	if previous.Fingerprint == fingerprint {
		return CompareResult{Outcome: Unchanged, Fingerprint: fingerprint}
	}

	summary := e.summarizer.Summarize(previous.Content, normalized)
	if summary == "" {
		// Hash changed but the stored content renders an empty diff. Can
		// happen when the previous snapshot was stored without content.
		summary = fmt.Sprintf("content fingerprint changed (%.12s -> %.12s)", previous.Fingerprint, fingerprint)
	}

	return CompareResult{
		Outcome:     Changed,
		Fingerprint: fingerprint,
		Summary:     summary,
	}
}
