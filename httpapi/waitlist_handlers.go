package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/vitalvas/kasper/mux"

	"github.com/truespec/truespec/waitlist"
)

// createWaitlistRequest is the POST /waitlist body.
type createWaitlistRequest struct {
	Email  string `json:"email"`
	Source string `json:"source,omitempty"`
}

func (s *Server) handleCreateWaitlist(w http.ResponseWriter, r *http.Request) {
	var req createWaitlistRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	email := waitlist.Normalize(req.Email)
	if err := waitlist.Validate(email); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	entry := waitlist.Entry{
		Email:     email,
		Source:    req.Source,
		CreatedAt: time.Now().UTC(),
	}

	// The row key is derived from the address, so resubmissions collide in
	// the store and the conflict is swallowed: signing up twice is fine.
	if err := s.waitlist.Put(r.Context(), entry.Entity(waitlistRowKey(email))); err != nil {
		s.metrics.RecordStoreFailure()
		s.writeError(w, http.StatusInternalServerError, "persisting waitlist entry", err)
		return
	}

	mux.ResponseJSON(w, http.StatusOK, entry)
}

type listWaitlistResponse struct {
	Items            []waitlist.Entry `json:"items"`
	NextPartitionKey string           `json:"nextPartitionKey,omitempty"`
	NextRowKey       string           `json:"nextRowKey,omitempty"`
}

func (s *Server) handleListWaitlist(w http.ResponseWriter, r *http.Request) {
	if !s.adminAuthorized(r) {
		s.writeError(w, http.StatusForbidden, "missing or invalid token", nil)
		return
	}

	pageSize := clampPageSize(r.URL.Query().Get("limit"))
	page, err := s.waitlist.ListPage(r.Context(), waitlist.PartitionKey, pageSize, pageTokenFromQuery(r))
	if err != nil {
		s.metrics.RecordStoreFailure()
		s.writeError(w, http.StatusInternalServerError, "listing waitlist entries", err)
		return
	}

	resp := listWaitlistResponse{Items: make([]waitlist.Entry, 0, len(page.Items))}
	for _, entity := range page.Items {
		resp.Items = append(resp.Items, waitlist.FromEntity(entity))
	}
	if page.Next != nil {
		resp.NextPartitionKey = page.Next.NextPartitionKey
		resp.NextRowKey = page.Next.NextRowKey
	}

	mux.ResponseJSON(w, http.StatusOK, resp)
}

// waitlistRowKey derives a stable row key from the normalized address.
func waitlistRowKey(email string) string {
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}
