package chi

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dnamatch/internal/domain"
	"github.com/kailas-cloud/dnamatch/internal/domain/search/state"
	logpkg "github.com/kailas-cloud/dnamatch/internal/logger"
	"github.com/kailas-cloud/dnamatch/internal/render"
	healthuc "github.com/kailas-cloud/dnamatch/internal/usecase/health"
)

// Error codes returned by the JSON API.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeSearchInProgress = "search_in_progress"
	codeInternalError    = "internal_error"
)

// maxFormBytes bounds search submissions; sequences are plain text.
const maxFormBytes = 32 << 20

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Session is the search lifecycle the UI drives.
type Session interface {
	State() state.State
	SubmitRaw(ctx context.Context, rawSequence, rawK string) error
}

// HealthChecker reports dependency health for /healthz.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server serves the search page and its JSON API for one shared session.
type Server struct {
	session  Session
	health   HealthChecker
	defaultK int
	logger   *zap.Logger

	mu       sync.Mutex
	sequence string // last submitted input, echoed back into the form
	k        string
}

// NewServer creates the web UI server.
func NewServer(session Session, defaultK int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		session:  session,
		defaultK: defaultK,
		logger:   logger,
		k:        strconv.Itoa(defaultK),
	}
}

// WithHealth enables dependency checks on /healthz.
func (s *Server) WithHealth(h HealthChecker) *Server {
	s.health = h
	return s
}

type pageData struct {
	View      render.View
	Sequence  string
	K         string
	Searching bool
}

// Index handles GET /.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	v := render.Render(s.session.State())

	s.mu.Lock()
	data := pageData{View: v, Sequence: s.sequence, K: s.k, Searching: v.Kind == state.KindSearching}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		logpkg.FromContext(r.Context()).Error("render page", zap.Error(err))
	}
}

// SubmitForm handles POST /search from the HTML form.
func (s *Server) SubmitForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	seq := r.PostForm.Get("sequence")
	k := trimLeadingZeros(r.PostForm.Get("k"))
	if err := s.submit(r.Context(), seq, k); err != nil && !domain.IsValidation(err) &&
		!errors.Is(err, domain.ErrSearchInFlight) {
		logpkg.FromContext(r.Context()).Error("submit search", zap.Error(err))
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// searchRequest is the JSON API submission. k may be a number or a string.
type searchRequest struct {
	Sequence string          `json:"sequence"`
	K        json.RawMessage `json:"k"`
}

// SubmitJSON handles POST /api/search.
func (s *Server) SubmitJSON(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	err := s.submit(r.Context(), req.Sequence, rawK(req.K))
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, render.Render(s.session.State()))
	case errors.Is(err, domain.ErrSearchInFlight):
		writeError(w, http.StatusConflict, codeSearchInProgress, err.Error())
	case domain.IsValidation(err):
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
	default:
		logpkg.FromContext(r.Context()).Error("submit search", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

// CurrentState handles GET /api/state.
func (s *Server) CurrentState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, render.Render(s.session.State()))
}

type healthResponse struct {
	Status string                          `json:"status"`
	State  string                          `json:"state"`
	Checks map[string]healthuc.CheckResult `json:"checks,omitempty"`
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status: string(healthuc.Healthy),
		State:  string(s.session.State().Kind()),
	}
	httpStatus := http.StatusOK
	if s.health != nil {
		report := s.health.Check(r.Context())
		resp.Status = string(report.Status)
		resp.Checks = report.Checks
		if report.Status != healthuc.Healthy {
			httpStatus = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, httpStatus, resp)
}

func (s *Server) submit(ctx context.Context, seq, k string) error {
	err := s.session.SubmitRaw(ctx, seq, k)
	if errors.Is(err, domain.ErrSearchInFlight) {
		return err
	}
	s.mu.Lock()
	s.sequence, s.k = seq, k
	s.mu.Unlock()
	return err
}

// rawK turns the JSON k value back into the text a user would have typed.
func rawK(msg json.RawMessage) string {
	var str string
	if err := json.Unmarshal(msg, &str); err == nil {
		return str
	}
	return strings.TrimSpace(string(msg))
}

// trimLeadingZeros mirrors the number field, which drops leading zeros as
// the user types.
func trimLeadingZeros(k string) string {
	return strings.TrimLeft(k, "0")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}
