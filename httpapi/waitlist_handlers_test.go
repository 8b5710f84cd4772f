package httpapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWaitlistEntry(t *testing.T) {
	srv, _, waitlistStore := newTestServer(t, nil)
	router := srv.Router()

	rec := doJSON(t, router, http.MethodPost, "/waitlist", map[string]any{
		"email":  "  Dev@Example.COM ",
		"source": "landing",
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Email  string `json:"email"`
		Source string `json:"source"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "dev@example.com", resp.Email)
	assert.Equal(t, "landing", resp.Source)
	assert.Equal(t, 1, waitlistStore.Len())
}

func TestCreateWaitlistDuplicateIsIdempotent(t *testing.T) {
	srv, _, waitlistStore := newTestServer(t, nil)
	router := srv.Router()

	for range 3 {
		rec := doJSON(t, router, http.MethodPost, "/waitlist", map[string]any{
			"email": "dev@example.com",
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	// Same normalized address derives the same row key, so duplicates
	// collapse into one row.
	assert.Equal(t, 1, waitlistStore.Len())
}

func TestCreateWaitlistInvalidEmail(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)
	router := srv.Router()

	for _, email := range []string{"", "nope", "a@b@c.com", "dev@localhost"} {
		rec := doJSON(t, router, http.MethodPost, "/waitlist", map[string]any{"email": email}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "email %q", email)
	}
}

func TestListWaitlist(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)
	router := srv.Router()
	admin := map[string]string{"X-Report-Token": testAdminToken}

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		rec := doJSON(t, router, http.MethodPost, "/waitlist", map[string]any{"email": email}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/waitlist?limit=2", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	var page listWaitlistResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Items, 2)
	assert.NotEmpty(t, page.NextRowKey)

	seen := map[string]bool{}
	for _, entry := range page.Items {
		seen[entry.Email] = true
	}

	next := "/waitlist?limit=2&nextPartitionKey=" + page.NextPartitionKey + "&nextRowKey=" + page.NextRowKey
	rec = doJSON(t, router, http.MethodGet, next, nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	var rest listWaitlistResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rest))
	require.Len(t, rest.Items, 1)
	assert.False(t, seen[rest.Items[0].Email], "pages must not overlap")
}

func TestListWaitlistRequiresAdmin(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)
	rec := doJSON(t, srv.Router(), http.MethodGet, "/waitlist", nil, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
