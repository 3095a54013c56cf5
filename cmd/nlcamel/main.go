// Package main provides the entry point for the nlcamel CLI.
//
// nlcamel crawls ranked domain lists and heuristically detects
// newsletter-subscription offerings on public websites.
//
// Usage:
//
//	nlcamel scan
//	nlcamel scan --domains example.com,example.org
//	nlcamel report results.csv
//
// See --help for all available options.
package main

// main is the entry point for nlcamel.
func main() {
	Execute()
}
