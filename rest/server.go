// Package rest exposes the mnemos service over HTTP. The routes are thin
// mappings onto the root Service façade: no business rules live here, only
// decoding, dispatch and status-code translation.
package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mnemos-ai/mnemos"
	"github.com/mnemos-ai/mnemos/model/resonance"
	"github.com/mnemos-ai/mnemos/policy"
	"github.com/mnemos-ai/mnemos/service/audit"
	"github.com/mnemos-ai/mnemos/service/consent"
	"github.com/mnemos-ai/mnemos/service/dao"
	"github.com/mnemos-ai/mnemos/service/vault"
)

// Server wraps the service with a chi router.
type Server struct {
	service *mnemos.Service
	router  chi.Router
}

// New builds the HTTP adapter for the given service.
func New(service *mnemos.Service) *Server {
	s := &Server{service: service}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/v1/status", s.handleStatus)

	r.Route("/v1/memory", func(r chi.Router) {
		r.Post("/", s.handleStoreMemory)
		r.Get("/", s.handleQueryMemory)
		r.Get("/{id}", s.handleGetMemory)
		r.Delete("/{id}", s.handleDeleteMemory)
	})

	r.Get("/v1/audit", s.handleAuditLog)

	r.Route("/v1/consent", func(r chi.Router) {
		r.Get("/pending", s.handleListPending)
		r.Post("/{id}/approve", s.handleApprove)
		r.Post("/{id}/deny", s.handleDeny)
		r.Get("/mode", s.handleGetMode)
		r.Put("/mode", s.handleSetMode)
	})

	r.Post("/v1/propose", s.handlePropose)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the server on addr and blocks.
func (s *Server) ListenAndServe(addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"mode":   s.service.ConsentMode(),
	})
}

type storeMemoryRequest struct {
	ID      string                 `json:"id"`
	Payload map[string]interface{} `json:"payload"`
	Tag     resonance.Tag          `json:"tag"`
}

func (s *Server) handleStoreMemory(w http.ResponseWriter, r *http.Request) {
	var request storeMemoryRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	shard, err := s.service.StoreMemory(r.Context(), request.ID, request.Payload, request.Tag)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, shard)
}

func (s *Server) handleGetMemory(w http.ResponseWriter, r *http.Request) {
	shard, err := s.service.Vault().Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if shard == nil {
		writeError(w, http.StatusNotFound, errors.New("memory not found"))
		return
	}
	writeJSON(w, http.StatusOK, shard)
}

func (s *Server) handleQueryMemory(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	shards, err := s.service.QueryMemory(r.Context(), criteria)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": shards})
}

func (s *Server) handleDeleteMemory(w http.ResponseWriter, r *http.Request) {
	removed, err := s.service.DeleteMemory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"removed": removed})
}

func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	var query *audit.Query
	values := r.URL.Query()
	if values.Get("action") != "" || values.Get("subjectId") != "" {
		query = &audit.Query{
			Action:    audit.Action(values.Get("action")),
			SubjectID: values.Get("subjectId"),
		}
	}
	entries, err := s.service.AuditLog(r.Context(), query)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": entries})
}

func (s *Server) handleListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := s.service.ListPendingConsent(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": pending})
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	resolution, err := s.service.ApproveConsent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resolution)
}

func (s *Server) handleDeny(w http.ResponseWriter, r *http.Request) {
	resolution, err := s.service.DenyConsent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resolution)
}

func (s *Server) handleGetMode(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"mode": s.service.ConsentMode()})
}

type setModeRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var request setModeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	mode, err := s.service.SetConsentMode(request.Mode)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"mode": mode})
}

type proposeRequest struct {
	MemoryID string        `json:"memoryId"`
	Input    string        `json:"input"`
	Tag      resonance.Tag `json:"tag"`
}

func (s *Server) handlePropose(w http.ResponseWriter, r *http.Request) {
	var request proposeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	proposal, err := s.service.Runtime().Propose(r.Context(), request.MemoryID, request.Input, request.Tag)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, proposal)
}

func criteriaFromQuery(r *http.Request) (vault.Criteria, error) {
	values := r.URL.Query()
	criteria := vault.Criteria{
		Tone:   resonance.Tone(values.Get("tone")),
		Symbol: values.Get("symbol"),
	}
	if raw := values.Get("minIntensity"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return criteria, err
		}
		criteria.MinIntensity = v
	}
	for name, target := range map[string]**float64{
		"moralMin": &criteria.MoralMin,
		"moralMax": &criteria.MoralMax,
	} {
		if raw := values.Get(name); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return criteria, err
			}
			*target = &v
		}
	}
	return criteria, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, consent.ErrNotFound), errors.Is(err, dao.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, consent.ErrEmptyMemoryID),
		errors.Is(err, vault.ErrEmptyID),
		errors.Is(err, resonance.ErrUnknownTone),
		errors.Is(err, resonance.ErrOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, policy.ErrInvalidMode):
		return http.StatusBadRequest
	case errors.Is(err, mnemos.ErrNoGenerator):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]interface{}{"error": err.Error()})
}
