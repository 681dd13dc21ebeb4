// Package scan is the top-level entry point: it ties the pickle decoder,
// safety classifier, format dispatcher, and archive walkers together into
// the Scanner spec.md §4.7 describes, handling the extension/magic decision
// order and bounding recursion depth across nested archives.
package scan
