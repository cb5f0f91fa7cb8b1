// Package exparse parses Ex command lines.
//
// A line is parsed in one pass:
//
//	[:]... [range] [name][!] [args]
//
// The range is a list of addresses separated by ',' or ';'. An address is
// '.', '$', a mark reference 'x, a line number, a /pattern/ or ?pattern?,
// followed by any number of +N, -N or bare N offsets. '%' stands for the
// whole buffer. The command name is resolved through an excmd.Registry using
// its abbreviation rules.
//
// Parsing never executes anything. ParseForExecution may prompt (to swap a
// backwards range), run address searches and expand file names; errors are
// reported through the Notifier and returned as *ParseError.
// ParseForInspection has no side effects and always returns an event, with
// Event.Err describing what would fail.
package exparse
