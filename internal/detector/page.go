package detector

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page is one fetched document ready for detection.
//
// Design decision: We keep both the raw body and the parsed document because
// the checks need both views. Provider mentions are matched against raw
// markup (they can hide in script URLs and attribute values that text
// extraction drops), while form and iframe checks need DOM queries.
type Page struct {
	// URL is the resolved URL the body was fetched from.
	URL string

	// Body is the raw response body.
	Body string

	// doc is the parsed document used for DOM queries.
	doc *goquery.Document
}

// NewPage parses a fetched body into a Page.
// goquery tolerates malformed HTML the same way browsers do, so parse
// errors only occur on truly unreadable input.
func NewPage(url, body string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	return &Page{URL: url, Body: body, doc: doc}, nil
}

// Document returns the parsed document for DOM queries.
func (p *Page) Document() *goquery.Document {
	return p.doc
}

// Text returns the page's visible text, lower-cased, for phrase matching.
func (p *Page) Text() string {
	return strings.ToLower(p.doc.Text())
}
