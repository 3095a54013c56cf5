// Package detector implements the newsletter signal detection engine.
// It scores a single fetched document for newsletter-subscription evidence
// and classifies the page against a fixed confidence threshold.
//
// Detection is a pure function of the parsed page: no network I/O, no shared
// state. The crawler fetches, the detector only looks.
package detector
