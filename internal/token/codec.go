package token

import (
	"encoding/base64"
	"encoding/json"

	"enapm-backend/internal/fault"
)

// InvalidToken always fails verification, so tests can inject a
// verification failure without forging a signature.
const InvalidToken = "invalid-token"

// Codec is the reversible strategy: payloads are serialized losslessly and
// verification succeeds unless the token is malformed. Development and
// testing only.
type Codec struct{}

func NewCodec() *Codec { return &Codec{} }

func (*Codec) Sign(payload map[string]any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fault.Unknown(err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

func (*Codec) Verify(token string) (map[string]any, error) {
	if token == InvalidToken {
		return nil, fault.ErrUnknownSignature
	}
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fault.WrapTokenVerification(err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fault.WrapTokenVerification(err)
	}
	return payload, nil
}
