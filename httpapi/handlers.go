package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/vitalvas/kasper/mux"

	"github.com/truespec/truespec/differ"
	"github.com/truespec/truespec/report"
	"github.com/truespec/truespec/reportstore"
	"github.com/truespec/truespec/specdoc"
	"github.com/truespec/truespec/tserrors"
)

// defaultRepo is the partition used when a submission names no repository.
const defaultRepo = "unknown"

// createReportRequest is the POST /reports body. Base and head may each be
// an embedded document object or a string holding JSON or YAML.
type createReportRequest struct {
	Base   json.RawMessage `json:"base"`
	Head   json.RawMessage `json:"head"`
	Repo   string          `json:"repo,omitempty"`
	Source string          `json:"source,omitempty"`
}

// reportSummary mirrors differ.Summary in responses and stored rows.
type reportSummary struct {
	Breaking int `json:"breaking"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
	Total    int `json:"total"`
}

type createReportResponse struct {
	ReportID string           `json:"reportId"`
	Repo     string           `json:"repo"`
	Summary  reportSummary    `json:"summary"`
	Markdown string           `json:"markdown"`
	Items    []differ.Finding `json:"items"`
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	if !s.ingestAuthorized(r) {
		s.writeError(w, http.StatusForbidden, "missing or invalid token", nil)
		return
	}

	var req createReportRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	base, err := loadSide(req.Base)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "unparseable base specification", err)
		return
	}
	head, err := loadSide(req.Head)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "unparseable head specification", err)
		return
	}
	if base == nil || head == nil {
		s.writeError(w, http.StatusBadRequest, "base and head specifications are required", nil)
		return
	}

	rep, err := differ.Diff(base, head)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "comparing specifications", err)
		return
	}
	s.metrics.ObserveDiff(rep)

	markdown := report.Markdown(rep)
	itemsJSON, err := json.Marshal(rep.Items)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "serializing findings", err)
		return
	}

	repo := req.Repo
	if repo == "" {
		repo = defaultRepo
	}
	id := uuid.NewString()

	storedMarkdown, markdownTruncated := truncate(markdown, TruncateBytes)
	storedItems, itemsTruncated := truncate(string(itemsJSON), TruncateBytes)

	entity := reportstore.Entity{
		PartitionKey: repo,
		RowKey:       id,
		Properties: map[string]any{
			"repo":              repo,
			"source":            req.Source,
			"createdAt":         time.Now().UTC().Format(time.RFC3339),
			"summaryBreaking":   rep.Summary.Breaking,
			"summaryWarning":    rep.Summary.Warning,
			"summaryInfo":       rep.Summary.Info,
			"summaryTotal":      rep.Summary.Total,
			"markdown":          storedMarkdown,
			"markdownTruncated": markdownTruncated,
			"items":             storedItems,
			"itemsTruncated":    itemsTruncated,
		},
	}
	if err := s.reports.Put(r.Context(), entity); err != nil {
		s.metrics.RecordStoreFailure()
		s.writeError(w, http.StatusInternalServerError, "persisting report", err)
		return
	}

	mux.ResponseJSON(w, http.StatusOK, createReportResponse{
		ReportID: id,
		Repo:     repo,
		Summary:  reportSummary(rep.Summary),
		Markdown: markdown,
		Items:    rep.Items,
	})
}

// reportStub is a listing row: everything but the rendered payloads.
type reportStub struct {
	ReportID  string        `json:"reportId"`
	Repo      string        `json:"repo"`
	Source    string        `json:"source,omitempty"`
	CreatedAt string        `json:"createdAt"`
	Summary   reportSummary `json:"summary"`
}

type listReportsResponse struct {
	Items            []reportStub `json:"items"`
	NextPartitionKey string       `json:"nextPartitionKey,omitempty"`
	NextRowKey       string       `json:"nextRowKey,omitempty"`
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if !s.adminAuthorized(r) {
		s.writeError(w, http.StatusForbidden, "missing or invalid token", nil)
		return
	}

	repo := r.URL.Query().Get("repo")
	if repo == "" {
		s.writeError(w, http.StatusBadRequest, "repo query parameter is required", nil)
		return
	}

	pageSize := clampPageSize(r.URL.Query().Get("limit"))
	token := pageTokenFromQuery(r)

	page, err := s.reports.ListPage(r.Context(), repo, pageSize, token)
	if err != nil {
		s.metrics.RecordStoreFailure()
		s.writeError(w, http.StatusInternalServerError, "listing reports", err)
		return
	}

	resp := listReportsResponse{Items: make([]reportStub, 0, len(page.Items))}
	for _, entity := range page.Items {
		resp.Items = append(resp.Items, reportStub{
			ReportID:  entity.RowKey,
			Repo:      stringProp(entity.Properties, "repo"),
			Source:    stringProp(entity.Properties, "source"),
			CreatedAt: stringProp(entity.Properties, "createdAt"),
			Summary:   summaryFromProps(entity.Properties),
		})
	}
	if page.Next != nil {
		resp.NextPartitionKey = page.Next.NextPartitionKey
		resp.NextRowKey = page.Next.NextRowKey
	}

	mux.ResponseJSON(w, http.StatusOK, resp)
}

type getReportResponse struct {
	ReportID          string          `json:"reportId"`
	Repo              string          `json:"repo"`
	Source            string          `json:"source,omitempty"`
	CreatedAt         string          `json:"createdAt"`
	Summary           reportSummary   `json:"summary"`
	Markdown          string          `json:"markdown"`
	MarkdownTruncated bool            `json:"markdownTruncated"`
	Items             json.RawMessage `json:"items"`
	ItemsTruncated    bool            `json:"itemsTruncated"`
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if !s.adminAuthorized(r) {
		s.writeError(w, http.StatusForbidden, "missing or invalid token", nil)
		return
	}

	id, _ := mux.VarGet(r, "id")
	entity, err := s.reports.GetByID(r.Context(), id)
	if err != nil {
		s.metrics.RecordStoreFailure()
		s.writeError(w, http.StatusInternalServerError, "fetching report", err)
		return
	}
	if entity == nil {
		s.writeError(w, http.StatusNotFound, "report not found", nil)
		return
	}

	items := stringProp(entity.Properties, "items")
	rawItems := json.RawMessage(items)
	if !json.Valid(rawItems) {
		// Truncated payloads are no longer valid JSON; return them quoted.
		quoted, _ := json.Marshal(items)
		rawItems = quoted
	}

	mux.ResponseJSON(w, http.StatusOK, getReportResponse{
		ReportID:          entity.RowKey,
		Repo:              stringProp(entity.Properties, "repo"),
		Source:            stringProp(entity.Properties, "source"),
		CreatedAt:         stringProp(entity.Properties, "createdAt"),
		Summary:           summaryFromProps(entity.Properties),
		Markdown:          stringProp(entity.Properties, "markdown"),
		MarkdownTruncated: boolProp(entity.Properties, "markdownTruncated"),
		Items:             rawItems,
		ItemsTruncated:    boolProp(entity.Properties, "itemsTruncated"),
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	mux.ResponseJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// loadSide parses one side of a submission: an embedded object, or a
// string holding a JSON or YAML document.
func loadSide(raw json.RawMessage) (specdoc.Doc, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	return specdoc.Load(decoded)
}

// pageTokenFromQuery reads the continuation pair, if the client sent one.
func pageTokenFromQuery(r *http.Request) *reportstore.PageToken {
	partition := r.URL.Query().Get("nextPartitionKey")
	row := r.URL.Query().Get("nextRowKey")
	if partition == "" && row == "" {
		return nil
	}
	return &reportstore.PageToken{NextPartitionKey: partition, NextRowKey: row}
}

// truncate bounds s to max bytes, appending the marker when cut.
func truncate(s string, max int) (string, bool) {
	if len(s) <= max {
		return s, false
	}
	return s[:max] + "...", true
}

// writeError renders a JSON error response. 5xx errors are logged with the
// full cause; the message reaches the client only in debug mode. 4xx
// responses carry their message and are not logged as errors.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "msg", msg, "error", err)
		if !s.cfg.Debug {
			mux.ResponseJSON(w, status, map[string]string{"error": http.StatusText(status)})
			return
		}
		if err != nil {
			msg = fmt.Sprintf("%s: %v", msg, err)
		}
		mux.ResponseJSON(w, status, map[string]string{"error": msg})
		return
	}

	if err != nil && isClientVisible(err) {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	mux.ResponseJSON(w, status, map[string]string{"error": msg})
}

// isClientVisible reports whether an error's message is safe and useful to
// echo on a 4xx response, such as YAML parse failures.
func isClientVisible(err error) bool {
	return errors.Is(err, tserrors.ErrYAMLUnavailable) || errors.Is(err, tserrors.ErrInputInvalid)
}

func stringProp(props map[string]any, key string) string {
	s, _ := props[key].(string)
	return s
}

func boolProp(props map[string]any, key string) bool {
	b, _ := props[key].(bool)
	return b
}

// intProp tolerates the numeric types different store backends hand back.
func intProp(props map[string]any, key string) int {
	switch v := props[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func summaryFromProps(props map[string]any) reportSummary {
	return reportSummary{
		Breaking: intProp(props, "summaryBreaking"),
		Warning:  intProp(props, "summaryWarning"),
		Info:     intProp(props, "summaryInfo"),
		Total:    intProp(props, "summaryTotal"),
	}
}
