// Package report provides console output, report rendering and the
// saved dumps.
//
// This package contains:
//   - Console: the single serialized, optionally colored progress sink
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown output for documentation and sharing
//   - SaveAddressReport / SaveSnapshot: the {address}.log and trxids.log dumps
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
