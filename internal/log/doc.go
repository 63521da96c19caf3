// Package log provides secure logging built on top of the standard slog
// package.
//
// SecureHandler masks secrets before they reach the output:
//   - HTTP credentials (Authorization, Cookie, X-Api-Key, provider tokens)
//   - wallet material (seeds, mnemonics, passphrases, extended private
//     keys, WIF keys)
//   - passwords embedded in proxy or provider URLs
//
// Public ledger data such as transaction ids and addresses is never
// masked; it is what the diagnostics are about.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("fetch attempt failed", "url", url, "error", err)
//	slog.SetDefault(logger)
//
// The same logger is handed to tornago when the embedded Tor daemon is used.
package log
