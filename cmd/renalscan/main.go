// Package main provides the entry point for the renalscan CLI.
//
// Renalscan analyzes medical images for kidney stones: it segments
// candidate regions, measures and localizes the primary finding, and
// produces an annotated image plus a narrative report.
//
// Usage:
//
//	renalscan scan <image>
//	renalscan batch <directory>
//	renalscan serve
//
// See --help for all available options.
package main

// main is the entry point for renalscan.
func main() {
	Execute()
}
