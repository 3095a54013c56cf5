package model

import "sort"

// Signal categories. The category names the kind of evidence, the detail
// names the concrete thing that was found.
const (
	// CategoryForm is used for evidence found inside an HTML form.
	CategoryForm = "form"
	// CategoryPattern is used for free-text phrase patterns on the page.
	CategoryPattern = "pattern"
	// CategoryService is used for third-party newsletter provider mentions.
	CategoryService = "service"
	// CategoryIframe is used for embedded provider widgets.
	CategoryIframe = "iframe"
)

// ClassifyThreshold is the confidence score at and above which a page is
// classified as offering a newsletter subscription. The threshold is fixed
// for compatibility with existing result files.
const ClassifyThreshold = 30

// RootEarlyExitThreshold is the confidence score at and above which the
// root path alone is considered conclusive and remaining candidate paths
// are skipped.
const RootEarlyExitThreshold = 50

// Signal is one discrete, named piece of evidence that a page supports
// newsletter subscription. A Signal carries no score of its own; weights are
// applied by the detector at detection time.
type Signal struct {
	// Category is one of the Category* constants.
	Category string

	// Detail identifies the concrete evidence within the category,
	// e.g. "email_input_type" or a provider name.
	Detail string
}

// String returns the canonical "category:detail" tag for the signal.
// Tags are what get persisted and what identity-based deduplication uses.
func (s Signal) String() string {
	return s.Category + ":" + s.Detail
}

// DetectionResult is the outcome of evaluating one fetched document.
//
// Confidence is monotonically additive: every piece of qualifying evidence
// adds its weight, and nothing ever subtracts. Signals holds the deduplicated
// evidence set; the same signal found twice still contributes its weight
// twice to Confidence (original scanner semantics, preserved for
// compatibility) but appears once in Signals.
type DetectionResult struct {
	// Confidence is the accumulated evidence score. No upper cap.
	Confidence int

	// Signals is the deduplicated set of detected signals, sorted by tag.
	Signals []Signal

	// Classified reports whether Confidence reached ClassifyThreshold.
	Classified bool
}

// NewDetectionResult builds a DetectionResult from an accumulated score and
// signal set, deriving the classification from the fixed threshold.
func NewDetectionResult(confidence int, signals []Signal) DetectionResult {
	sorted := make([]Signal, len(signals))
	copy(sorted, signals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].String() < sorted[j].String() })

	return DetectionResult{
		Confidence: confidence,
		Signals:    sorted,
		Classified: confidence >= ClassifyThreshold,
	}
}

// Tags returns the sorted "category:detail" tags of all signals.
func (r DetectionResult) Tags() []string {
	tags := make([]string, 0, len(r.Signals))
	for _, s := range r.Signals {
		tags = append(tags, s.String())
	}
	return tags
}
