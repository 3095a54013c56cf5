package detector

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mhammadzahi/nl-camel/internal/model"
)

// newsletterKeywords label subscription-related UI text. A submit control
// whose label contains any of these counts as a newsletter button.
var newsletterKeywords = []string{
	"newsletter",
	"subscribe",
	"subscription",
	"sign up",
	"signup",
	"join our",
	"mailing list",
	"email updates",
	"get updates",
	"stay updated",
	"weekly digest",
}

// actionKeywords mark a form action URL as subscription-related.
var actionKeywords = []string{"subscribe", "newsletter", "signup", "join", "register"}

// emailNameHints mark a generic text input as an email field when found in
// its name, id, or placeholder.
var emailNameHints = []string{"email", "mail", "e-mail"}

// FormCheck scores evidence found inside HTML forms: email-typed inputs,
// email-named text inputs, subscription action URLs, and newsletter-labelled
// submit controls.
type FormCheck struct{}

// NewFormCheck creates a FormCheck.
func NewFormCheck() *FormCheck {
	return &FormCheck{}
}

// Name returns the check name.
func (c *FormCheck) Name() string { return "form" }

// Run inspects every form on the page.
func (c *FormCheck) Run(page *Page) []Evidence {
	evidence := make([]Evidence, 0)

	page.Document().Find("form").Each(func(_ int, form *goquery.Selection) {
		// Email-typed input: one hit per form, not per input.
		if form.Find(`input[type="email"]`).Length() > 0 {
			evidence = append(evidence, Evidence{
				Signal: model.Signal{Category: model.CategoryForm, Detail: "email_input_type"},
				Weight: WeightEmailInputType,
			})
		}

		// Generic text inputs that name an email field: one hit per input.
		form.Find(`input[type="text"]`).Each(func(_ int, in *goquery.Selection) {
			name := strings.ToLower(in.AttrOr("name", "") + in.AttrOr("id", "") + in.AttrOr("placeholder", ""))
			if containsAny(name, emailNameHints) {
				evidence = append(evidence, Evidence{
					Signal: model.Signal{Category: model.CategoryForm, Detail: "email_named_input"},
					Weight: WeightEmailNamedInput,
				})
			}
		})

		// Subscription action URL.
		action := strings.ToLower(form.AttrOr("action", ""))
		if containsAny(action, actionKeywords) {
			evidence = append(evidence, Evidence{
				Signal: model.Signal{Category: model.CategoryForm, Detail: "newsletter_action"},
				Weight: WeightNewsletterAction,
			})
		}

		// Newsletter-labelled submit controls: one hit per control.
		form.Find("button, input").Each(func(_ int, btn *goquery.Selection) {
			label := strings.ToLower(btn.AttrOr("value", "") + btn.Text())
			if containsAny(label, newsletterKeywords) {
				evidence = append(evidence, Evidence{
					Signal: model.Signal{Category: model.CategoryForm, Detail: "newsletter_button"},
					Weight: WeightNewsletterButton,
				})
			}
		})
	})

	return evidence
}

// textPattern is one phrase pattern matched against page text.
type textPattern struct {
	id string
	re *regexp.Regexp
}

// textPatterns are matched against the lower-cased page text. Each distinct
// pattern contributes once, no matter how often it matches.
var textPatterns = []textPattern{
	{id: "newsletter-signup", re: regexp.MustCompile(`newsletter.*sign.*up`)},
	{id: "subscribe-newsletter", re: regexp.MustCompile(`subscribe.*newsletter`)},
	{id: "join-mailing-list", re: regexp.MustCompile(`join.*mailing.*list`)},
	{id: "email-subscription", re: regexp.MustCompile(`email.*subscription`)},
	{id: "stay-updated", re: regexp.MustCompile(`stay.*updated`)},
}

// PatternCheck scores free-text subscription phrases in the page text.
type PatternCheck struct{}

// NewPatternCheck creates a PatternCheck.
func NewPatternCheck() *PatternCheck {
	return &PatternCheck{}
}

// Name returns the check name.
func (c *PatternCheck) Name() string { return "pattern" }

// Run matches every fixed phrase pattern against the page text.
func (c *PatternCheck) Run(page *Page) []Evidence {
	evidence := make([]Evidence, 0)
	text := page.Text()

	for _, p := range textPatterns {
		if p.re.MatchString(text) {
			evidence = append(evidence, Evidence{
				Signal: model.Signal{Category: model.CategoryPattern, Detail: p.id},
				Weight: WeightTextPattern,
			})
		}
	}

	return evidence
}

// providerNames are the third-party newsletter services whose presence in
// page markup is strong evidence of a subscription offering.
var providerNames = []string{
	"mailchimp",
	"substack",
	"convertkit",
	"buttondown",
	"revue",
	"tinyletter",
	"sendinblue",
	"getresponse",
}

// ProviderCheck scores mentions of known newsletter providers anywhere in
// the raw markup. Matching the raw body rather than extracted text catches
// script URLs, CSS classes, and attribute values.
type ProviderCheck struct{}

// NewProviderCheck creates a ProviderCheck.
func NewProviderCheck() *ProviderCheck {
	return &ProviderCheck{}
}

// Name returns the check name.
func (c *ProviderCheck) Name() string { return "provider" }

// Run matches every known provider name against the raw markup.
func (c *ProviderCheck) Run(page *Page) []Evidence {
	evidence := make([]Evidence, 0)
	body := strings.ToLower(page.Body)

	for _, provider := range providerNames {
		if strings.Contains(body, provider) {
			evidence = append(evidence, Evidence{
				Signal: model.Signal{Category: model.CategoryService, Detail: provider},
				Weight: WeightProviderMention,
			})
		}
	}

	return evidence
}

// IframeCheck scores embedded frames whose source URL loads a known
// newsletter provider's widget.
type IframeCheck struct{}

// NewIframeCheck creates an IframeCheck.
func NewIframeCheck() *IframeCheck {
	return &IframeCheck{}
}

// Name returns the check name.
func (c *IframeCheck) Name() string { return "iframe" }

// Run inspects every iframe on the page.
func (c *IframeCheck) Run(page *Page) []Evidence {
	evidence := make([]Evidence, 0)

	page.Document().Find("iframe").Each(func(_ int, frame *goquery.Selection) {
		src := strings.ToLower(frame.AttrOr("src", ""))
		if containsAny(src, providerNames) {
			evidence = append(evidence, Evidence{
				Signal: model.Signal{Category: model.CategoryIframe, Detail: "newsletter_widget"},
				Weight: WeightProviderIframe,
			})
		}
	})

	return evidence
}

// containsAny reports whether s contains at least one of the needles.
func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
