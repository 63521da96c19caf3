// Package main provides the entry point for the txdig CLI.
//
// txdig explores public Bitcoin ledger data. Address mode queries one
// address across several providers; dig mode walks the inputs of a
// transaction up to a given depth and counts every address and
// transaction id it meets.
//
// Usage:
//
//	txdig -a <address> [-S]
//	txdig [network] <txid> <level> [-S]
//
// See --help for all available options.
package main

// main is the entry point for txdig.
func main() {
	Execute()
}
