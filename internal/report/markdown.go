package report

import (
	"bytes"
	"encoding/json"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/txdig/internal/model"
)

// MarkdownWriter outputs reports in Markdown format for documentation
// and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteAddress outputs an address report in Markdown format.
func (w *MarkdownWriter) WriteAddress(report *model.AddressReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	names := slices.Sorted(maps.Keys(report.AddressInfo))
	ok := 0
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		result := report.AddressInfo[name]
		status := "✅ OK"
		if !result.OK() {
			status = "❌ " + result.Err
		} else {
			ok++
		}
		rows = append(rows, []string{name, status})
	}

	md.H1("txdig Address Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Address", "`" + report.Address + "`"},
			{"Providers", strconv.Itoa(ok) + "/" + strconv.Itoa(len(names))},
			{"Transactions", strconv.Itoa(len(report.TransactionDetails))},
		},
	})
	md.PlainText("")

	md.H2("Providers")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Provider", "Status"},
		Rows:   rows,
	})
	md.PlainText("")

	switch {
	case ok == 0:
		md.Cautionf("No provider returned data for this address.")
	case ok < len(names):
		md.Warningf("%d of %d providers failed; results are partial.", len(names)-ok, len(names))
	}
	md.PlainText("")

	for _, name := range names {
		if result := report.AddressInfo[name]; result.OK() {
			md.H3(name)
			md.CodeBlocks(markdown.SyntaxHighlightJSON, indentJSON(result.Data))
			md.PlainText("")
		}
	}

	if len(report.TransactionDetails) > 0 {
		md.H2("Transactions")
		md.PlainText("")
		txids := slices.Sorted(maps.Keys(report.TransactionDetails))
		txRows := make([][]string, 0, len(txids))
		for _, txid := range txids {
			status := "✅ OK"
			if result := report.TransactionDetails[txid]; !result.OK() {
				status = "❌ " + result.Err
			}
			txRows = append(txRows, []string{"`" + txid + "`", status})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Transaction", "Status"},
			Rows:   txRows,
		})
		md.PlainText("")
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteDig outputs a dig result in Markdown format.
func (w *MarkdownWriter) WriteDig(result *model.DigResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeDigHeader(md, result)
	w.writeTraversal(md, result)
	w.writeEntities(md, "Addresses", result.Snapshot, model.EntityAddress, result.Snapshot.Addresses)
	w.writeEntities(md, "Transactions", result.Snapshot, model.EntityTxid, result.Snapshot.Txids)
	w.writeVisits(md, result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeDigHeader writes the run information table.
func (w *MarkdownWriter) writeDigHeader(md *markdown.Markdown, result *model.DigResult) {
	status := "✅ Complete"
	if result.Interrupted {
		status = "⚠️ Interrupted (partial results)"
	}

	md.H1("txdig Dig Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed", "`" + result.Seed + "`"},
			{"Network", result.Network.String()},
			{"Max Level", strconv.Itoa(result.MaxLevel)},
			{"Started", result.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", result.Elapsed.String()},
			{"Status", status},
		},
	})
	md.PlainText("")
}

// writeTraversal writes visit counts, a chart and a repeat alert.
func (w *MarkdownWriter) writeTraversal(md *markdown.Markdown, result *model.DigResult) {
	s := result.Stats

	md.H2("Traversal")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"State", "Nodes"},
		Rows: [][]string{
			{model.NodeExpanded.String(), strconv.Itoa(s.Expanded)},
			{model.NodeDepthLimited.String(), strconv.Itoa(s.DepthLimited)},
			{model.NodeFetchFailed.String(), strconv.Itoa(s.FetchFailed)},
			{model.NodeMalformed.String(), strconv.Itoa(s.Malformed)},
		},
	})
	md.PlainText("")

	if len(result.Visits) > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Node States"),
			piechart.WithShowData(true),
		)
		for _, entry := range []struct {
			state model.NodeState
			count int
		}{
			{model.NodeExpanded, s.Expanded},
			{model.NodeDepthLimited, s.DepthLimited},
			{model.NodeFetchFailed, s.FetchFailed},
			{model.NodeMalformed, s.Malformed},
		} {
			if entry.count > 0 {
				chart.LabelAndIntValue(entry.state.String(), uint64(entry.count)) //nolint:gosec // count is positive
			}
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	addrs := len(result.Snapshot.Repeated(model.EntityAddress))
	txids := len(result.Snapshot.Repeated(model.EntityTxid))
	switch {
	case s.FetchFailed > 0:
		md.Warningf("%d transaction(s) could not be retrieved; their branches were skipped.", s.FetchFailed)
	case addrs > 0 || txids > 0:
		md.Importantf("%d repeated address(es) and %d repeated transaction id(s) detected.", addrs, txids)
	default:
		md.Tip("No repeated addresses or transaction ids detected.")
	}
	md.PlainText("")
}

// writeEntities writes one entity kind with occurrence counts.
// Repeated entities are set in bold.
func (w *MarkdownWriter) writeEntities(md *markdown.Markdown, title string, snap model.TrackerSnapshot, kind model.EntityKind, entities []string) {
	md.H2(title + " (" + strconv.Itoa(len(entities)) + ")")
	md.PlainText("")
	if len(entities) == 0 {
		md.PlainText("None.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(entities))
	for _, e := range entities {
		count := snap.Count(kind, e)
		cell := "`" + e + "`"
		if count > 1 {
			cell = "**" + cell + "**"
		}
		rows = append(rows, []string{cell, strconv.Itoa(count)})
	}
	md.Table(markdown.TableSet{
		Header: []string{kind.String(), "Count"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeVisits writes the processing log in order.
func (w *MarkdownWriter) writeVisits(md *markdown.Markdown, result *model.DigResult) {
	md.H2("Visits")
	md.PlainText("")

	rows := make([][]string, 0, len(result.Visits))
	for _, v := range result.Visits {
		rows = append(rows, []string{
			strconv.Itoa(v.Level),
			"`" + v.Txid + "`",
			v.State.String(),
			strconv.Itoa(v.Inputs),
			strconv.Itoa(v.Outputs),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Level", "Transaction", "State", "Inputs", "Outputs"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [txdig](https://github.com/nao1215/txdig)*")
}

// indentJSON pretty prints raw JSON, falling back to the raw text.
func indentJSON(data json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return string(data)
	}
	return buf.String()
}
