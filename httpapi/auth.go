package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// requestToken extracts the caller's token: the X-Report-Token header, or
// the bearer token of the Authorization header.
func requestToken(r *http.Request) string {
	if t := r.Header.Get("X-Report-Token"); t != "" {
		return t
	}
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return token
	}
	return ""
}

// tokenMatches compares tokens in constant time. An empty expected token
// never matches.
func tokenMatches(got, want string) bool {
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// adminAuthorized reports whether the request carries the admin token.
// An unset admin token disables the admin surface entirely.
func (s *Server) adminAuthorized(r *http.Request) bool {
	return tokenMatches(requestToken(r), s.cfg.AdminToken)
}

// ingestAuthorized reports whether the request may submit reports. An
// unset ingest token leaves the ingest surface open.
func (s *Server) ingestAuthorized(r *http.Request) bool {
	if s.cfg.IngestToken == "" {
		return true
	}
	return tokenMatches(requestToken(r), s.cfg.IngestToken)
}
