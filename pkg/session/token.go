package session

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// ExpiresBefore is a best-effort local expiry hint: it decodes the claims
// segment of a JWT-shaped token without verifying the signature and
// reports whether the token expires before t.
//
// A token that cannot be decoded, or that carries no expiry claim, is
// reported as expired. The result is only used to decide whether loading
// the profile at startup is worth a request. It is never an authorization
// decision, the server alone judges whether a token is valid.
func ExpiresBefore(token string, t time.Time) bool {
	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		return true
	}

	raw, err := decodeSegment(segments[1])
	if err != nil {
		return true
	}

	var claims struct {
		Exp *int64 `json:"exp"`
	}
	if err := json.Unmarshal(raw, &claims); err != nil || claims.Exp == nil {
		return true
	}

	return time.Unix(*claims.Exp, 0).Before(t)
}

// decodeSegment decodes a JWT segment, accepting both the unpadded
// URL-safe alphabet of RFC 7515 and the padded variants some issuers
// emit.
func decodeSegment(segment string) ([]byte, error) {
	if raw, err := base64.RawURLEncoding.DecodeString(segment); err == nil {
		return raw, nil
	}
	return base64.URLEncoding.DecodeString(segment)
}
