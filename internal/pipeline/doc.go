// Package pipeline runs the two txdig modes as ordered steps.
//
// Address mode is resolve_address, resolve_transactions, render_address
// and, with --save, save_address. Dig mode is dig, render_dig and
// save_dig. Each step receives the run state (AddressRun or DigRun) the
// previous steps filled in.
//
// Render and save steps are Finishers: when the run context is cancelled
// mid-way, the remaining lookups are skipped but whatever was collected
// is still printed and written to disk.
package pipeline
