package model

import "time"

// unknownStr is the string representation for unknown values.
const unknownStr = "unknown"

// NodeState is the outcome of one traversal step.
type NodeState int

const (
	// NodePending means the node was scheduled but not processed yet.
	NodePending NodeState = iota
	// NodeExpanded means the transaction was fetched and its inputs registered.
	NodeExpanded
	// NodeDepthLimited means the node sat at or beyond the maximum level
	// and was not fetched.
	NodeDepthLimited
	// NodeFetchFailed means the transaction could not be retrieved or parsed.
	NodeFetchFailed
	// NodeMalformed means the payload was retrieved but had no input list.
	NodeMalformed
)

// String returns the state name.
func (s NodeState) String() string {
	switch s {
	case NodePending:
		return "pending"
	case NodeExpanded:
		return "expanded"
	case NodeDepthLimited:
		return "depth_limited"
	case NodeFetchFailed:
		return "fetch_failed"
	case NodeMalformed:
		return "malformed"
	default:
		return unknownStr
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s NodeState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Visit records one processed traversal node.
type Visit struct {
	// Txid is the transaction visited.
	Txid string `json:"txid"`

	// Level is the recursion depth counted from the seed (level 0).
	Level int `json:"level"`

	// State is how processing of the node ended.
	State NodeState `json:"state"`

	// Inputs is the number of inputs of the fetched transaction.
	Inputs int `json:"inputs,omitempty"`

	// Outputs is the number of outputs of the fetched transaction.
	Outputs int `json:"outputs,omitempty"`

	// InputValue is the sum of resolved input values in satoshis.
	InputValue int64 `json:"input_value,omitempty"`
}

// DigStats counts visits per terminal state.
type DigStats struct {
	Expanded     int `json:"expanded"`
	DepthLimited int `json:"depth_limited"`
	FetchFailed  int `json:"fetch_failed"`
	Malformed    int `json:"malformed"`
}

// Fetches returns how many transaction fetches were attempted.
func (s DigStats) Fetches() int {
	return s.Expanded + s.FetchFailed + s.Malformed
}

// Record increments the counter for state.
func (s *DigStats) Record(state NodeState) {
	switch state {
	case NodeExpanded:
		s.Expanded++
	case NodeDepthLimited:
		s.DepthLimited++
	case NodeFetchFailed:
		s.FetchFailed++
	case NodeMalformed:
		s.Malformed++
	case NodePending:
	}
}

// DigResult is everything one transaction-digging run produced.
type DigResult struct {
	// Network is the network the seed lives on.
	Network Network `json:"network"`

	// Seed is the starting transaction id.
	Seed string `json:"seed"`

	// MaxLevel is the recursion limit the run used.
	MaxLevel int `json:"max_level"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the wall time of the run.
	Elapsed time.Duration `json:"elapsed"`

	// Interrupted is true when the run context was cancelled before the
	// work list drained. Snapshot then holds partial results.
	Interrupted bool `json:"interrupted,omitempty"`

	// Visits lists processed nodes in processing order.
	Visits []Visit `json:"visits"`

	// Stats counts Visits per state.
	Stats DigStats `json:"stats"`

	// Snapshot is the Graph Tracker content at the end of the run.
	Snapshot TrackerSnapshot `json:"snapshot"`
}
