// Package equalweight builds equal-weight allocation plans for a basket of
// securities.
//
// Given a list of ticker symbols and a total budget, it retrieves the current
// price and market capitalization of every security and computes how many
// shares (fractional included) of each to buy so that every position receives
// the same dollar amount.
//
// The pipeline flows one way:
//   - Fetcher: retrieves quotes from a QuoteSource with a bounded retry policy.
//     A symbol that cannot be retrieved is dropped and reported, it never
//     aborts the run.
//   - Engine: sizes every position against the same position target
//     (budget / number of positions).
//   - renderer.Formatter: turns the resulting AllocationTable into a styled,
//     deterministic spreadsheet.
//
// This package serves as the foundational logic for the `ewt` command-line
// tool.
package equalweight
