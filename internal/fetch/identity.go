package fetch

import (
	"fmt"
	"net/http"
)

// baseUserAgent is the browser string shared by the default identities.
const baseUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/110.0.0.0 Safari/537.36"

// Identity is one transport identity. Identities only differ in the
// User-Agent header they send.
type Identity struct {
	// Name is a short label used in logs.
	Name string

	// UserAgent is the User-Agent header value.
	UserAgent string
}

// DefaultIdentities returns the four stock identities.
func DefaultIdentities() []Identity {
	ids := make([]Identity, 4)
	for i := range ids {
		ids[i] = Identity{
			Name:      fmt.Sprintf("header%d", i+1),
			UserAgent: fmt.Sprintf("%s Header%d", baseUserAgent, i+1),
		}
	}
	return ids
}

// IdentitiesFromUserAgents builds one identity per user agent string.
func IdentitiesFromUserAgents(agents []string) []Identity {
	ids := make([]Identity, 0, len(agents))
	for i, ua := range agents {
		ids = append(ids, Identity{
			Name:      fmt.Sprintf("header%d", i+1),
			UserAgent: ua,
		})
	}
	return ids
}

// identityTransport stamps an identity's headers on every request before
// handing it to the shared base transport.
type identityTransport struct {
	base     http.RoundTripper
	identity Identity
}

// RoundTrip implements http.RoundTripper.
func (t *identityTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.identity.UserAgent)
	if clone.Header.Get("Accept") == "" {
		clone.Header.Set("Accept", "application/json")
	}
	return t.base.RoundTrip(clone)
}
