// Package scan reads and writes scanner reports.
//
// A report is a sequence of blocks separated by blank lines. Each block
// starts with a header of the form
//
//	--- scanner <N> ---
//
// followed by one beacon per line as "x,y,z" signed integers in the
// scanner's local frame. N is informational only; scanner identity is the
// zero-based block order.
//
// Parsing is all-or-nothing: any malformed line aborts with a *ParseError
// carrying the line number and a stable error code.
package scan
