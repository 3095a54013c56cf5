package detector

import (
	"github.com/mhammadzahi/nl-camel/internal/model"
)

// Signal weights. These are fixed: result files produced by different
// versions must score identically, so changing a weight is a breaking change.
const (
	// WeightEmailInputType is added once per form containing an
	// input of semantic type "email".
	WeightEmailInputType = 30

	// WeightEmailNamedInput is added per generic text input whose
	// name/id/placeholder names an email field.
	WeightEmailNamedInput = 25

	// WeightNewsletterAction is added per form whose action URL contains a
	// subscription keyword.
	WeightNewsletterAction = 20

	// WeightNewsletterButton is added per submit control labelled with a
	// newsletter keyword.
	WeightNewsletterButton = 15

	// WeightTextPattern is added per distinct phrase pattern matched in the
	// page text.
	WeightTextPattern = 10

	// WeightProviderMention is added per distinct newsletter provider named
	// anywhere in the raw markup.
	WeightProviderMention = 25

	// WeightProviderIframe is added per embedded frame loading a provider
	// widget.
	WeightProviderIframe = 20
)

// Evidence is one weighted occurrence of a signal found by a check.
// The same signal may occur multiple times (e.g. two forms with email
// inputs); every occurrence contributes its weight, while the signal set is
// deduplicated by tag.
type Evidence struct {
	// Signal identifies what was found.
	Signal model.Signal

	// Weight is the confidence contribution of this occurrence.
	Weight int
}

// Check inspects one aspect of a page and reports weighted evidence.
//
// Design decision: We use an interface rather than one large scoring
// function because:
//  1. Each evidence class has its own matching rules and keyword lists
//  2. Checks can be tested in isolation
//  3. New evidence classes slot in without touching existing ones
type Check interface {
	// Name returns the check's name for logging.
	Name() string

	// Run inspects the page and returns every evidence occurrence found.
	Run(page *Page) []Evidence
}

// Engine coordinates all registered checks and aggregates their evidence
// into a DetectionResult.
type Engine struct {
	// checks is the list of registered checks, run in order.
	checks []Check
}

// NewEngine creates an Engine with all built-in checks registered.
func NewEngine() *Engine {
	e := &Engine{checks: make([]Check, 0)}

	e.Register(NewFormCheck())
	e.Register(NewPatternCheck())
	e.Register(NewProviderCheck())
	e.Register(NewIframeCheck())

	return e
}

// Register adds a check to the engine.
func (e *Engine) Register(c Check) {
	e.checks = append(e.checks, c)
}

// Detect runs every check against the page and returns the aggregated
// result. Confidence accumulates over every evidence occurrence without an
// upper cap; the signal set is deduplicated by tag.
func (e *Engine) Detect(page *Page) model.DetectionResult {
	confidence := 0
	seen := make(map[string]bool)
	signals := make([]model.Signal, 0)

	for _, check := range e.checks {
		for _, ev := range check.Run(page) {
			confidence += ev.Weight

			tag := ev.Signal.String()
			if !seen[tag] {
				seen[tag] = true
				signals = append(signals, ev.Signal)
			}
		}
	}

	return model.NewDetectionResult(confidence, signals)
}
