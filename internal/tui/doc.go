// Package tui provides the interactive combination browser.
//
// The browser renders the legal build combinations in a filterable table
// using the Bubble Tea framework. It supports incremental filtering across
// all columns and copying the selected combination to the clipboard for
// pasting into a build command.
package tui
