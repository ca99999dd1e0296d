// Package token signs and verifies the opaque payloads embedded in
// invitation callback URLs. Two interchangeable strategies exist: a signed
// expiring JWT codec for production and a reversible codec for tests.
package token

// Service signs a JSON-serializable payload into an opaque token and
// verifies a token back into its payload. Verification failures carry one
// of three fault kinds: TOKEN_EXPIRED, UNKNOWN_SIGNATURE or
// UNKNOWN_TOKEN_VERIFICATION.
type Service interface {
	Sign(payload map[string]any) (string, error)
	Verify(token string) (map[string]any, error)
}
