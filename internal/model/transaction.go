package model

// UnknownAddress is the sentinel used when an input's source address
// could not be resolved (coinbase inputs, non-standard scripts).
const UnknownAddress = "N/A"

// Transaction is one ledger transaction as returned by an Esplora style
// API (mempool.space, blockstream.info).
//
// Inputs is nil when the payload had no "vin" field, which callers treat
// as malformed data. An empty but present list decodes to a non-nil slice.
type Transaction struct {
	// Txid is the transaction id.
	Txid string `json:"txid"`

	// Inputs are the spent previous outputs, in payload order.
	Inputs []Input `json:"vin"`

	// Outputs are the produced outputs, in payload order.
	Outputs []Output `json:"vout"`
}

// HasInputs reports whether the payload carried an input list at all.
func (t *Transaction) HasInputs() bool {
	return t != nil && t.Inputs != nil
}

// Input references a previous transaction's output being spent.
type Input struct {
	// Txid is the id of the transaction that created the spent output.
	Txid string `json:"txid"`

	// Vout is the index of the spent output inside Txid.
	Vout uint32 `json:"vout"`

	// Prevout is the resolved spent output. It is nil for coinbase inputs.
	Prevout *Output `json:"prevout"`

	// IsCoinbase is true for the single input of a coinbase transaction.
	IsCoinbase bool `json:"is_coinbase"`
}

// Address returns the source address of the input, or UnknownAddress when
// the provider did not resolve one.
func (in Input) Address() string {
	if in.Prevout == nil || in.Prevout.Address == "" {
		return UnknownAddress
	}
	return in.Prevout.Address
}

// Value returns the value of the spent output in satoshis, or 0 when
// unresolved.
func (in Input) Value() int64 {
	if in.Prevout == nil {
		return 0
	}
	return in.Prevout.Value
}

// Output is a destination and value produced by a transaction.
type Output struct {
	// Address is the decoded destination address, empty for scripts
	// without a standard address form (OP_RETURN and friends).
	Address string `json:"scriptpubkey_address,omitempty"`

	// ScriptType is the provider's script classification (p2pkh, v0_p2wpkh...).
	ScriptType string `json:"scriptpubkey_type,omitempty"`

	// Value is the output value in satoshis.
	Value int64 `json:"value"`
}
