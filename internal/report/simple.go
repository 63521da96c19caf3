package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nao1215/txdig/internal/model"
)

// ruleWidth is the width of the "=" separator lines.
const ruleWidth = 80

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// highlight marks repeated entities in dig summaries.
	highlight func(string) string

	// verbose adds the per-visit log to dig summaries.
	verbose bool

	printer *message.Printer
	upper   cases.Caser
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithHighlight sets the function used to mark entities seen more than
// once, usually Console.Highlight.
func WithHighlight(fn func(string) string) SimpleWriterOption {
	return func(w *SimpleWriter) {
		if fn != nil {
			w.highlight = fn
		}
	}
}

// WithVerbose enables the per-visit log in dig summaries.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		highlight:  func(s string) string { return s },
		printer:    message.NewPrinter(language.English),
		upper:      cases.Upper(language.Und),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteAddress outputs every provider section of an address report,
// followed by the transaction details.
func (w *SimpleWriter) WriteAddress(report *model.AddressReport) (int, error) {
	var sb strings.Builder
	rule := strings.Repeat("=", ruleWidth)

	sb.WriteString(rule + "\n")
	sb.WriteString(fmt.Sprintf("Bitcoin Address Data for: %s\n", report.Address))
	sb.WriteString(rule + "\n")

	for _, name := range slices.Sorted(maps.Keys(report.AddressInfo)) {
		sb.WriteString(fmt.Sprintf("\n-- %s DATA --\n", w.upper.String(name)))
		writeResult(&sb, report.AddressInfo[name])
	}

	if len(report.TransactionDetails) > 0 {
		sb.WriteString(fmt.Sprintf("\n-- TRANSACTION DETAILS (%d) --\n", len(report.TransactionDetails)))
		for _, txid := range slices.Sorted(maps.Keys(report.TransactionDetails)) {
			sb.WriteString(fmt.Sprintf("\n%s\n", txid))
			writeResult(&sb, report.TransactionDetails[txid])
		}
	}

	sb.WriteString(rule + "\n")
	return w.output.Write([]byte(sb.String()))
}

// writeResult writes indented JSON for data or the placeholder string.
func writeResult(sb *strings.Builder, result model.ProviderResult) {
	if !result.OK() {
		sb.WriteString(result.Err + "\n")
		return
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, result.Data, "", "    "); err != nil {
		sb.Write(result.Data)
		sb.WriteString("\n")
		return
	}
	sb.WriteString(buf.String() + "\n")
}

// WriteDig outputs the dig summary: every address and txid with its
// occurrence count, plus traversal statistics.
func (w *SimpleWriter) WriteDig(result *model.DigResult) (int, error) {
	var sb strings.Builder
	rule := strings.Repeat("=", ruleWidth)
	snap := result.Snapshot

	sb.WriteString("\n" + rule + "\n")

	sb.WriteString(fmt.Sprintf("Total involved addresses: %d\n", len(snap.Addresses)))
	w.writeCounts(&sb, snap, model.EntityAddress, snap.Addresses)

	sb.WriteString(fmt.Sprintf("\nTotal involved txids: %d\n", len(snap.Txids)))
	w.writeCounts(&sb, snap, model.EntityTxid, snap.Txids)

	sb.WriteString("\n")
	w.writeStats(&sb, result)

	if w.verbose && len(result.Visits) > 0 {
		sb.WriteString("\nVisits:\n")
		for _, v := range result.Visits {
			sb.WriteString(fmt.Sprintf("  %s%s %s (%s)\n",
				strings.Repeat("  ", v.Level), v.Txid, w.printer.Sprintf("%d sat", v.InputValue), v.State))
		}
	}

	sb.WriteString(rule + "\n")
	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeCounts(sb *strings.Builder, snap model.TrackerSnapshot, kind model.EntityKind, entities []string) {
	for _, e := range entities {
		count := snap.Count(kind, e)
		name := e
		if count > 1 {
			name = w.highlight(e)
		}
		sb.WriteString(fmt.Sprintf("%s : %d\n", name, count))
	}
}

// writeStats writes per-state visit counts and the total input value.
func (w *SimpleWriter) writeStats(sb *strings.Builder, result *model.DigResult) {
	s := result.Stats

	var value int64
	for _, v := range result.Visits {
		value += v.InputValue
	}

	sb.WriteString(fmt.Sprintf("Network:        %s\n", result.Network))
	sb.WriteString(fmt.Sprintf("Max level:      %d\n", result.MaxLevel))
	sb.WriteString(fmt.Sprintf("Fetches:        %d (expanded %d, failed %d, malformed %d)\n",
		s.Fetches(), s.Expanded, s.FetchFailed, s.Malformed))
	sb.WriteString(fmt.Sprintf("Depth limited:  %d\n", s.DepthLimited))
	sb.WriteString(w.printer.Sprintf("Input value:    %d sat\n", value))
	sb.WriteString(fmt.Sprintf("Elapsed:        %s\n", result.Elapsed.Round(time.Millisecond)))
	if result.Interrupted {
		sb.WriteString("Status:         INTERRUPTED (partial results)\n")
	}
}
