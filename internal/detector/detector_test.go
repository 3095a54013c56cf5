package detector

import (
	"reflect"
	"testing"

	"github.com/mhammadzahi/nl-camel/internal/model"
)

// mustPage parses a body or fails the test.
func mustPage(t *testing.T, body string) *Page {
	t.Helper()

	page, err := NewPage("https://example.com/", body)
	if err != nil {
		t.Fatalf("failed to parse page: %v", err)
	}
	return page
}

// TestEngineDetect tests the end-to-end scoring of whole documents.
func TestEngineDetect(t *testing.T) {
	t.Parallel()

	engine := NewEngine()

	t.Run("email input plus subscription action scores 50", func(t *testing.T) {
		t.Parallel()

		page := mustPage(t, `<html><body>
			<form action="/do-subscribe-newsletter">
				<input type="email" name="email">
			</form>
		</body></html>`)

		result := engine.Detect(page)

		if result.Confidence != 50 {
			t.Errorf("expected confidence 50, got %d", result.Confidence)
		}
		if !result.Classified {
			t.Error("expected classified result")
		}
		want := []string{"form:email_input_type", "form:newsletter_action"}
		if !reflect.DeepEqual(result.Tags(), want) {
			t.Errorf("signals = %v, want %v", result.Tags(), want)
		}
	})

	t.Run("single text pattern scores 10 and stays unclassified", func(t *testing.T) {
		t.Parallel()

		page := mustPage(t, `<html><body>
			<p>Subscribe to our Newsletter and get our weekly digest</p>
		</body></html>`)

		result := engine.Detect(page)

		if result.Confidence != 10 {
			t.Errorf("expected confidence 10, got %d", result.Confidence)
		}
		if result.Classified {
			t.Error("expected unclassified result")
		}
		want := []string{"pattern:subscribe-newsletter"}
		if !reflect.DeepEqual(result.Tags(), want) {
			t.Errorf("signals = %v, want %v", result.Tags(), want)
		}
	})

	t.Run("empty page scores zero", func(t *testing.T) {
		t.Parallel()

		result := engine.Detect(mustPage(t, `<html><body><p>hello</p></body></html>`))

		if result.Confidence != 0 {
			t.Errorf("expected confidence 0, got %d", result.Confidence)
		}
		if result.Classified {
			t.Error("expected unclassified result")
		}
		if len(result.Signals) != 0 {
			t.Errorf("expected no signals, got %v", result.Tags())
		}
	})

	t.Run("confidence is monotonic as evidence accumulates", func(t *testing.T) {
		t.Parallel()

		fragments := []string{
			`<form action="/subscribe"><input type="email" name="e"></form>`,
			`<p>join our mailing list today</p>`,
			`<iframe src="https://cdn.substack.com/embed"></iframe>`,
		}

		previous := 0
		body := "<html><body>"
		for _, fragment := range fragments {
			body += fragment
			result := engine.Detect(mustPage(t, body+"</body></html>"))
			if result.Confidence < previous {
				t.Fatalf("confidence dropped from %d to %d after adding evidence",
					previous, result.Confidence)
			}
			previous = result.Confidence
		}
	})

	t.Run("two qualifying forms score twice but dedup the signal", func(t *testing.T) {
		t.Parallel()

		page := mustPage(t, `<html><body>
			<form><input type="email" name="a"></form>
			<form><input type="email" name="b"></form>
		</body></html>`)

		result := engine.Detect(page)

		if result.Confidence != 60 {
			t.Errorf("expected confidence 60, got %d", result.Confidence)
		}
		want := []string{"form:email_input_type"}
		if !reflect.DeepEqual(result.Tags(), want) {
			t.Errorf("signals = %v, want %v", result.Tags(), want)
		}
	})
}

// TestFormCheck tests the individual form evidence rules.
func TestFormCheck(t *testing.T) {
	t.Parallel()

	check := NewFormCheck()

	t.Run("email-named text input", func(t *testing.T) {
		t.Parallel()

		page := mustPage(t, `<form>
			<input type="text" name="user_email" placeholder="you@example.com">
		</form>`)

		evidence := check.Run(page)
		if len(evidence) != 1 {
			t.Fatalf("expected 1 evidence, got %d", len(evidence))
		}
		if evidence[0].Weight != WeightEmailNamedInput {
			t.Errorf("expected weight %d, got %d", WeightEmailNamedInput, evidence[0].Weight)
		}
		if evidence[0].Signal.String() != "form:email_named_input" {
			t.Errorf("unexpected signal %s", evidence[0].Signal)
		}
	})

	t.Run("placeholder alone qualifies an input", func(t *testing.T) {
		t.Parallel()

		page := mustPage(t, `<form><input type="text" name="contact" placeholder="Your e-mail"></form>`)

		if got := len(check.Run(page)); got != 1 {
			t.Errorf("expected 1 evidence, got %d", got)
		}
	})

	t.Run("newsletter button label", func(t *testing.T) {
		t.Parallel()

		page := mustPage(t, `<form><button>Sign up now</button></form>`)

		evidence := check.Run(page)
		if len(evidence) != 1 {
			t.Fatalf("expected 1 evidence, got %d", len(evidence))
		}
		if evidence[0].Signal.String() != "form:newsletter_button" {
			t.Errorf("unexpected signal %s", evidence[0].Signal)
		}
	})

	t.Run("submit value counts as a label", func(t *testing.T) {
		t.Parallel()

		page := mustPage(t, `<form><input type="submit" value="Subscribe"></form>`)

		if got := len(check.Run(page)); got != 1 {
			t.Errorf("expected 1 evidence, got %d", got)
		}
	})

	t.Run("inputs outside forms are ignored", func(t *testing.T) {
		t.Parallel()

		page := mustPage(t, `<body><input type="email" name="search"></body>`)

		if got := len(check.Run(page)); got != 0 {
			t.Errorf("expected no evidence, got %d", got)
		}
	})
}

// TestProviderCheck tests provider mention detection in raw markup.
func TestProviderCheck(t *testing.T) {
	t.Parallel()

	check := NewProviderCheck()

	t.Run("provider in script source", func(t *testing.T) {
		t.Parallel()

		page := mustPage(t, `<html><head>
			<script src="https://chimpstatic.mailchimp.com/mcjs.js"></script>
		</head></html>`)

		evidence := check.Run(page)
		if len(evidence) != 1 {
			t.Fatalf("expected 1 evidence, got %d", len(evidence))
		}
		if evidence[0].Signal.String() != "service:mailchimp" {
			t.Errorf("unexpected signal %s", evidence[0].Signal)
		}
	})

	t.Run("each distinct provider counts once", func(t *testing.T) {
		t.Parallel()

		page := mustPage(t, `<p>we moved from tinyletter to substack, substack rocks</p>`)

		if got := len(check.Run(page)); got != 2 {
			t.Errorf("expected 2 evidence, got %d", got)
		}
	})
}

// TestIframeCheck tests embedded provider widget detection.
func TestIframeCheck(t *testing.T) {
	t.Parallel()

	check := NewIframeCheck()

	page := mustPage(t, `<body>
		<iframe src="https://buttondown.email/user/embed"></iframe>
		<iframe src="https://www.youtube.com/embed/x"></iframe>
	</body>`)

	evidence := check.Run(page)
	if len(evidence) != 1 {
		t.Fatalf("expected 1 evidence, got %d", len(evidence))
	}
	if evidence[0].Signal != (model.Signal{Category: model.CategoryIframe, Detail: "newsletter_widget"}) {
		t.Errorf("unexpected signal %s", evidence[0].Signal)
	}
}

// TestPatternCheck tests the fixed phrase patterns.
func TestPatternCheck(t *testing.T) {
	t.Parallel()

	check := NewPatternCheck()

	tests := []struct {
		name string
		body string
		want int
	}{
		{
			name: "newsletter signup phrase",
			body: `<p>Newsletter: sign up for updates</p>`,
			want: 1,
		},
		{
			name: "two distinct phrases",
			body: `<p>join our mailing list</p><p>email subscription available</p>`,
			want: 2,
		},
		{
			name: "repeated phrase counts once",
			body: `<p>subscribe to the newsletter</p><p>subscribe to the newsletter</p>`,
			want: 1,
		},
		{
			name: "no phrases",
			body: `<p>nothing to see here</p>`,
			want: 0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := len(check.Run(mustPage(t, tt.body))); got != tt.want {
				t.Errorf("expected %d evidence, got %d", tt.want, got)
			}
		})
	}
}
