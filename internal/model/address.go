package model

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ProviderResult is one provider's outcome inside an address snapshot.
// Exactly one of Data and Err is set. It serializes as the raw JSON
// document on success, or as the descriptive error string on failure,
// so a failed provider is never silently dropped from the output.
type ProviderResult struct {
	// Data is the validated JSON document returned by the provider.
	Data json.RawMessage

	// Err is a human readable placeholder describing the failure.
	Err string
}

// OK reports whether the provider returned usable data.
func (r ProviderResult) OK() bool {
	return r.Err == "" && len(r.Data) > 0
}

// MarshalJSON implements json.Marshaler.
func (r ProviderResult) MarshalJSON() ([]byte, error) {
	if r.OK() {
		return r.Data, nil
	}
	return json.Marshal(r.Err)
}

// UnmarshalJSON implements json.Unmarshaler.
// A JSON string is read back as an error placeholder, anything else as data.
func (r *ProviderResult) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return errors.New("empty provider result")
	}
	if trimmed[0] == '"' {
		r.Data = nil
		return json.Unmarshal(trimmed, &r.Err)
	}
	r.Err = ""
	r.Data = append(json.RawMessage(nil), trimmed...)
	return nil
}

// AddressSnapshot maps a provider name to that provider's result for one
// queried address. It is assembled once per query and not modified after.
type AddressSnapshot map[string]ProviderResult

// AddressReport is the combined address mode document. Its JSON form is
// what gets written to {address}.log.
type AddressReport struct {
	// Address is the queried address. It is not part of the saved document.
	Address string `json:"-"`

	// AddressInfo holds one entry per configured provider.
	AddressInfo AddressSnapshot `json:"address_info"`

	// TransactionDetails maps each transaction hash listed by the
	// raw-address provider to its detail lookup result.
	TransactionDetails map[string]ProviderResult `json:"transaction_details"`
}

// NewAddressReport creates an empty report for the given address.
func NewAddressReport(address string) *AddressReport {
	return &AddressReport{
		Address:            address,
		AddressInfo:        make(AddressSnapshot),
		TransactionDetails: make(map[string]ProviderResult),
	}
}
