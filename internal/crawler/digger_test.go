package crawler

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/nao1215/txdig/internal/model"
	"github.com/nao1215/txdig/internal/tracker"
)

var errUnavailable = errors.New("unavailable")

// graphSource serves transactions from an in-memory graph.
// Missing ids fail like an exhausted fetch.
type graphSource struct {
	mu      sync.Mutex
	txs     map[string]*model.Transaction
	fetched []string
	onFetch func(txid string)
}

func (g *graphSource) Resolve(_ context.Context, txid string, _ model.Network) (*model.Transaction, error) {
	g.mu.Lock()
	g.fetched = append(g.fetched, txid)
	tx, ok := g.txs[txid]
	hook := g.onFetch
	g.mu.Unlock()

	if hook != nil {
		hook(txid)
	}
	if !ok {
		return nil, errUnavailable
	}
	return tx, nil
}

// recordingReporter keeps every line; Highlight wraps in brackets.
type recordingReporter struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (r *recordingReporter) Infof(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, fmt.Sprintf(format, args...))
}

func (r *recordingReporter) Errorf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recordingReporter) Highlight(s string) string {
	return "[" + s + "]"
}

func (r *recordingReporter) hasInfo(line string) bool {
	return slices.Contains(r.infos, line)
}

// in builds an input spending txid from address.
func in(txid, address string, value int64) model.Input {
	return model.Input{Txid: txid, Prevout: &model.Output{Address: address, Value: value}}
}

// tx builds a transaction with the given inputs and one output.
func tx(id string, inputs ...model.Input) *model.Transaction {
	if inputs == nil {
		inputs = []model.Input{}
	}
	return &model.Transaction{
		Txid:    id,
		Inputs:  inputs,
		Outputs: []model.Output{{Address: "out-" + id, Value: 1}},
	}
}

func states(result *model.DigResult) []string {
	out := make([]string, 0, len(result.Visits))
	for _, v := range result.Visits {
		out = append(out, fmt.Sprintf("%s@%d:%s", v.Txid, v.Level, v.State))
	}
	return out
}

// TestDigDepthBoundary tests that nothing at or past the limit is fetched.
func TestDigDepthBoundary(t *testing.T) {
	t.Parallel()

	graph := func() *graphSource {
		return &graphSource{txs: map[string]*model.Transaction{
			"T0": tx("T0", in("T1", "addr1", 100), in("T2", "addr2", 200)),
			"T1": tx("T1", in("T3", "addr3", 50)),
			"T2": tx("T2", in("T4", "addr4", 60)),
		}}
	}

	t.Run("max level 1 fetches only the seed", func(t *testing.T) {
		t.Parallel()

		src := graph()
		tr := tracker.New()
		result, err := NewDigger(src, WithMaxDepth(1)).Dig(context.Background(), tr, "T0", model.NetworkBitcoin)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !slices.Equal(src.fetched, []string{"T0"}) {
			t.Errorf("expected only T0 fetched, got %v", src.fetched)
		}

		snap := result.Snapshot
		if !slices.Equal(snap.Addresses, []string{"addr1", "addr2"}) {
			t.Errorf("unexpected addresses %v", snap.Addresses)
		}
		if !slices.Equal(snap.Txids, []string{"T1", "T2"}) {
			t.Errorf("unexpected txids %v", snap.Txids)
		}
		for _, e := range snap.Txids {
			if snap.Count(model.EntityTxid, e) != 1 {
				t.Errorf("expected count 1 for %s", e)
			}
		}
		for _, e := range snap.Addresses {
			if snap.Count(model.EntityAddress, e) != 1 {
				t.Errorf("expected count 1 for %s", e)
			}
		}

		want := []string{"T0@0:expanded", "T1@1:depth_limited", "T2@1:depth_limited"}
		if got := states(result); !slices.Equal(got, want) {
			t.Errorf("visits = %v, want %v", got, want)
		}
		if result.Stats.Fetches() != 1 || result.Stats.DepthLimited != 2 {
			t.Errorf("unexpected stats %+v", result.Stats)
		}
	})

	t.Run("max level 2 fetches the seed and its inputs", func(t *testing.T) {
		t.Parallel()

		src := graph()
		result, err := NewDigger(src, WithMaxDepth(2)).Dig(context.Background(), tracker.New(), "T0", model.NetworkBitcoin)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(src.fetched, []string{"T0", "T1", "T2"}) {
			t.Errorf("unexpected fetch order %v", src.fetched)
		}
		for _, v := range result.Visits {
			if v.State == model.NodeExpanded && v.Level >= 2 {
				t.Errorf("expanded node %s beyond limit", v.Txid)
			}
		}
		if len(result.Snapshot.Txids) != 4 {
			t.Errorf("expected 4 txids, got %v", result.Snapshot.Txids)
		}
	})

	t.Run("max level 0 fetches nothing", func(t *testing.T) {
		t.Parallel()

		src := graph()
		result, err := NewDigger(src, WithMaxDepth(0)).Dig(context.Background(), tracker.New(), "T0", model.NetworkBitcoin)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(src.fetched) != 0 {
			t.Errorf("expected no fetch, got %v", src.fetched)
		}
		if got := states(result); !slices.Equal(got, []string{"T0@0:depth_limited"}) {
			t.Errorf("unexpected visits %v", got)
		}
	})
}

// TestDigOrder tests depth-first pre-order processing.
func TestDigOrder(t *testing.T) {
	t.Parallel()

	src := &graphSource{txs: map[string]*model.Transaction{
		"T0": tx("T0", in("T1", "a1", 1), in("T2", "a2", 1)),
		"T1": tx("T1", in("T3", "a3", 1)),
		"T2": tx("T2", in("T4", "a4", 1)),
		"T3": tx("T3"),
		"T4": tx("T4"),
	}}

	_, err := NewDigger(src, WithMaxDepth(5)).Dig(context.Background(), tracker.New(), "T0", model.NetworkBitcoin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"T0", "T1", "T3", "T2", "T4"}
	if !slices.Equal(src.fetched, want) {
		t.Errorf("fetch order = %v, want %v", src.fetched, want)
	}
}

// TestDigFetchFailure tests that a failed branch adds nothing to the tracker.
func TestDigFetchFailure(t *testing.T) {
	t.Parallel()

	src := &graphSource{txs: map[string]*model.Transaction{
		"T0": tx("T0", in("T1", "addr1", 100), in("T2", "addr2", 200)),
		"T2": tx("T2", in("T5", "addr5", 10)),
	}}
	rep := &recordingReporter{}
	tr := tracker.New()

	result, err := NewDigger(src, WithMaxDepth(3), WithReporter(rep)).Dig(context.Background(), tr, "T0", model.NetworkBitcoin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !slices.Contains(rep.errors, "Error retrieving transaction T1. Skipping.") {
		t.Errorf("expected failure notice, got %v", rep.errors)
	}
	if result.Stats.FetchFailed != 2 {
		// T1 and T5 are both missing.
		t.Errorf("expected 2 fetch failures, got %+v", result.Stats)
	}

	want := []string{"T1", "T2", "T5"}
	if !slices.Equal(result.Snapshot.Txids, want) {
		t.Errorf("txids = %v, want %v", result.Snapshot.Txids, want)
	}
	if !slices.Equal(result.Snapshot.Addresses, []string{"addr1", "addr2", "addr5"}) {
		t.Errorf("unexpected addresses %v", result.Snapshot.Addresses)
	}
	if !slices.Equal(src.fetched, []string{"T0", "T1", "T2", "T5"}) {
		t.Errorf("unexpected fetch order %v", src.fetched)
	}
}

// TestDigMalformed tests that a payload without inputs ends the branch.
func TestDigMalformed(t *testing.T) {
	t.Parallel()

	src := &graphSource{txs: map[string]*model.Transaction{
		"T0": {Txid: "T0"},
	}}
	rep := &recordingReporter{}

	result, err := NewDigger(src, WithReporter(rep)).Dig(context.Background(), tracker.New(), "T0", model.NetworkBitcoin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Stats.Malformed != 1 {
		t.Errorf("expected 1 malformed node, got %+v", result.Stats)
	}
	if !slices.Contains(rep.errors, "Malformed transaction data for T0. Skipping.") {
		t.Errorf("expected malformed notice, got %v", rep.errors)
	}
	if len(result.Snapshot.Txids) != 0 || len(result.Snapshot.Addresses) != 0 {
		t.Errorf("expected empty snapshot, got %+v", result.Snapshot)
	}
}

// TestDigRepeats tests repeat detection across levels.
func TestDigRepeats(t *testing.T) {
	t.Parallel()

	t.Run("address seen at two levels", func(t *testing.T) {
		t.Parallel()

		src := &graphSource{txs: map[string]*model.Transaction{
			"T0": tx("T0", in("T1", "shared", 100)),
			"T1": tx("T1", in("T2", "shared", 90)),
		}}
		rep := &recordingReporter{}
		tr := tracker.New()

		_, err := NewDigger(src, WithMaxDepth(2), WithReporter(rep)).Dig(context.Background(), tr, "T0", model.NetworkBitcoin)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := tr.Count(model.EntityAddress, "shared"); got != 2 {
			t.Errorf("expected count 2, got %d", got)
		}
		if addrs, _ := tr.Len(); addrs != 1 {
			t.Errorf("expected 1 distinct address, got %d", addrs)
		}
		if !rep.hasInfo("Detected repeated address: [shared]") {
			t.Errorf("expected repeat notice, got %v", rep.infos)
		}
		if !rep.hasInfo("T2 90 from [shared]") {
			t.Errorf("expected highlighted input line, got %v", rep.infos)
		}
		if !rep.hasInfo("T1 100 from shared") {
			t.Errorf("expected plain first input line, got %v", rep.infos)
		}
	})

	t.Run("duplicate inputs collapse in the work list", func(t *testing.T) {
		t.Parallel()

		src := &graphSource{txs: map[string]*model.Transaction{
			"T0": tx("T0", in("T1", "a", 1), in("T1", "b", 2)),
			"T1": tx("T1"),
		}}
		rep := &recordingReporter{}
		tr := tracker.New()

		result, err := NewDigger(src, WithMaxDepth(2), WithReporter(rep)).Dig(context.Background(), tr, "T0", model.NetworkBitcoin)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(src.fetched, []string{"T0", "T1"}) {
			t.Errorf("expected T1 fetched once, got %v", src.fetched)
		}
		if tr.Count(model.EntityTxid, "T1") != 2 {
			t.Errorf("expected T1 counted twice, got %d", tr.Count(model.EntityTxid, "T1"))
		}
		if !rep.hasInfo("Detected repeated TX id: [T1]") {
			t.Errorf("expected repeat notice, got %v", rep.infos)
		}
		if result.Visits[0].InputValue != 3 {
			t.Errorf("expected input value 3, got %d", result.Visits[0].InputValue)
		}
	})

	t.Run("transaction reached twice is expanded twice", func(t *testing.T) {
		t.Parallel()

		src := &graphSource{txs: map[string]*model.Transaction{
			"T0": tx("T0", in("T1", "a", 1), in("T2", "b", 1)),
			"T1": tx("T1", in("T3", "c", 1)),
			"T2": tx("T2", in("T3", "c", 1)),
			"T3": tx("T3", in("T4", "d", 1)),
		}}
		tr := tracker.New()

		_, err := NewDigger(src, WithMaxDepth(3)).Dig(context.Background(), tr, "T0", model.NetworkBitcoin)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(src.fetched, []string{"T0", "T1", "T3", "T2", "T3"}) {
			t.Errorf("unexpected fetch order %v", src.fetched)
		}
		if tr.Count(model.EntityTxid, "T4") != 2 {
			t.Errorf("expected T4 counted twice, got %d", tr.Count(model.EntityTxid, "T4"))
		}
	})
}

// TestDigReporting tests the per-node log lines.
func TestDigReporting(t *testing.T) {
	t.Parallel()

	coinbase := model.Input{Txid: strings.Repeat("0", 64), IsCoinbase: true}
	src := &graphSource{txs: map[string]*model.Transaction{
		"T0": tx("T0", coinbase, in("T1", "addr1", 5000)),
	}}
	rep := &recordingReporter{}
	tr := tracker.New()

	result, err := NewDigger(src, WithMaxDepth(2), WithReporter(rep)).Dig(context.Background(), tr, "T0", model.NetworkBitcoin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, line := range []string{
		"Level 0 TX T0 has 2 inputs and 1 outputs.",
		"Inputs:",
		strings.Repeat("0", 64) + " 0 from N/A",
		"T1 5000 from addr1",
	} {
		if !rep.hasInfo(line) {
			t.Errorf("missing line %q in %v", line, rep.infos)
		}
	}

	if tr.Count(model.EntityAddress, model.UnknownAddress) != 1 {
		t.Error("expected unresolved address to be registered as N/A")
	}
	if slices.Contains(src.fetched, strings.Repeat("0", 64)) {
		t.Error("coinbase input must not be expanded")
	}
	if result.Snapshot.Count(model.EntityTxid, strings.Repeat("0", 64)) != 1 {
		t.Error("expected coinbase reference to be registered")
	}
}

// TestDigCancellation tests that a cancelled walk keeps partial results.
func TestDigCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &graphSource{txs: map[string]*model.Transaction{
		"T0": tx("T0", in("T1", "a1", 1), in("T2", "a2", 1)),
		"T1": tx("T1", in("T3", "a3", 1)),
		"T2": tx("T2"),
	}}
	src.onFetch = func(txid string) {
		if txid == "T1" {
			cancel()
		}
	}
	tr := tracker.New()

	result, err := NewDigger(src, WithMaxDepth(5)).Dig(ctx, tr, "T0", model.NetworkBitcoin)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !result.Interrupted {
		t.Error("expected Interrupted")
	}
	if slices.Contains(src.fetched, "T2") {
		t.Error("T2 must not be fetched after cancellation")
	}
	if len(result.Snapshot.Txids) == 0 {
		t.Error("expected partial snapshot")
	}
}
