package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// sensitiveKeys contains attribute keys whose values are always masked.
var sensitiveKeys = map[string]bool{
	// HTTP headers
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,

	// Provider credentials
	"api_key":      true,
	"apikey":       true,
	"api-key":      true,
	"token":        true,
	"access_token": true,
	"password":     true,
	"secret":       true,

	// Wallet material
	"seed":        true,
	"mnemonic":    true,
	"passphrase":  true,
	"xprv":        true,
	"wif":         true,
	"private_key": true,
	"privatekey":  true,
	"wallet_key":  true,
}

// sensitivePatterns match values that are masked whatever their key.
// Transaction ids and addresses are public and must never match.
var sensitivePatterns = []*regexp.Regexp{
	// JWT tokens
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),

	// Bearer and Basic authorization values
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),

	// BIP32 extended private keys (mainnet and testnet, all script flavors)
	regexp.MustCompile(`\b[xyzt]prv[1-9A-HJ-NP-Za-km-z]{100,112}\b`),
	regexp.MustCompile(`\b[uv]prv[1-9A-HJ-NP-Za-km-z]{100,112}\b`),

	// WIF private keys: uncompressed (5...) and compressed (K.../L...),
	// plus testnet (9... / c...)
	regexp.MustCompile(`^5[HJK][1-9A-HJ-NP-Za-km-z]{49}$`),
	regexp.MustCompile(`^[KLc][1-9A-HJ-NP-Za-km-z]{51}$`),
	regexp.MustCompile(`^9[1-9A-HJ-NP-Za-km-z]{50}$`),

	// BIP39 style mnemonics: 12 to 24 lowercase words
	regexp.MustCompile(`^(?:[a-z]{3,8}\s+){11,23}[a-z]{3,8}$`),

	// PEM private key markers
	regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`),
}

// userinfoPattern finds credentials embedded in proxy or provider URLs.
var userinfoPattern = regexp.MustCompile(`(://[^:/@\s]+:)[^@/\s]+@`)

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// SecureHandler wraps an slog.Handler and masks secrets before records
// reach the underlying handler. Keys are matched by name; values by
// pattern. Credentials inside URLs are masked in place so the rest of
// the URL stays readable.
type SecureHandler struct {
	// handler is the underlying slog handler that receives sanitized records.
	handler slog.Handler
}

// NewSecureHandler creates a new SecureHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record's attributes and passes it on.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a new handler with the given attributes sanitized
// and added.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitizedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitizedAttrs[i] = h.sanitizeAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(sanitizedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr sanitizes a single attribute, recursing into groups.
func (h *SecureHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		sanitizedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			sanitizedAttrs[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitizedAttrs...)}
	}

	keyLower := strings.ToLower(a.Key)
	if sensitiveKeys[keyLower] || containsSensitiveKeyword(keyLower) {
		return slog.String(a.Key, MaskValue)
	}

	// Errors often carry the URL that failed, so they are checked too.
	var strVal string
	switch a.Value.Kind() {
	case slog.KindString:
		strVal = a.Value.String()
	case slog.KindAny:
		err, ok := a.Value.Any().(error)
		if !ok {
			return a
		}
		strVal = err.Error()
	default:
		return a
	}

	if isSensitiveValue(strVal) {
		return slog.String(a.Key, MaskValue)
	}
	if redacted := redactUserinfo(strVal); redacted != strVal {
		return slog.String(a.Key, redacted)
	}
	return a
}

// containsSensitiveKeyword checks if the key contains sensitive keywords.
// The bare word "key" is not one of them: "cache_key" or "sort_key" are
// harmless and masking them would hide useful diagnostics.
func containsSensitiveKeyword(key string) bool {
	sensitiveKeywords := []string{
		"password", "passwd", "passphrase", "secret", "token", "auth",
		"credential", "private", "seed", "mnemonic", "xprv",
	}

	for _, keyword := range sensitiveKeywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

// isSensitiveValue checks if a value matches sensitive patterns.
func isSensitiveValue(value string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// redactUserinfo masks the password part of user:password@ in URLs.
func redactUserinfo(value string) string {
	if !strings.Contains(value, "@") {
		return value
	}
	return userinfoPattern.ReplaceAllString(value, "${1}"+MaskValue+"@")
}

// NewSecureLogger creates a text slog.Logger that masks secrets.
// verbose selects Debug level; otherwise only warnings and errors are
// shown.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewSecureJSONLogger is NewSecureLogger with JSON output, for log
// aggregation.
func NewSecureJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
