package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matzehuels/stackorder/pkg/dag"
	"github.com/matzehuels/stackorder/pkg/dag/order"
	apperrors "github.com/matzehuels/stackorder/pkg/errors"
	"github.com/matzehuels/stackorder/pkg/observability"
	"github.com/matzehuels/stackorder/pkg/pipeline"
	"github.com/matzehuels/stackorder/pkg/settings"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Code       apperrors.Code `json:"code"`
	Message    string         `json:"message"`
	Unresolved []dag.NodeID   `json:"unresolved,omitempty"`
	Cycle      []dag.NodeID   `json:"cycle,omitempty"`
	From       dag.NodeID     `json:"from,omitempty"`
	To         dag.NodeID     `json:"to,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
}

type checkRequest struct {
	Adjacency dag.Adjacency `json:"adjacency"`
	Nodes     []dag.NodeID  `json:"nodes"`
	Order     []dag.NodeID  `json:"order"`
}

type checkResponse struct {
	Valid bool `json:"valid"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: s.cfg.Version})
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.runner.Order(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := order.Check(req.Adjacency, req.Nodes, req.Order); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, checkResponse{Valid: true})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Settings())
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var raw settings.RawSettings
	if !s.decode(w, r, &raw) {
		return
	}
	next, err := s.store.Replace(raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("settings updated",
		"revision", s.store.Revision(),
		"request_id", RequestIDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, next)
}

// decode reads a JSON body into v, rejecting unknown fields and oversized
// bodies. On failure it writes the error response and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Code:      apperrors.ErrCodeInvalidInput,
				Message:   "request body too large",
				RequestID: RequestIDFromContext(r.Context()),
			})
			return false
		}
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode request body"))
		return false
	}
	return true
}

// writeError maps err to a status code and error body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse{
		Code:      apperrors.GetCode(err),
		Message:   apperrors.UserMessage(err),
		RequestID: RequestIDFromContext(r.Context()),
	}

	var ce *order.CycleError
	var ve *order.ViolationError
	switch {
	case errors.As(err, &ce):
		resp.Unresolved = ce.Unresolved
		resp.Cycle = ce.Cycle
	case errors.As(err, &ve):
		resp.From = ve.From
		resp.To = ve.To
	}

	status := statusFor(resp.Code)
	if resp.Code == "" {
		resp.Code = apperrors.ErrCodeInternal
	}
	if status >= 500 {
		s.logger.Error("request failed", "err", err, "request_id", resp.RequestID)
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
		resp.Message = "internal server error"
	}
	writeJSON(w, status, resp)
}

func statusFor(code apperrors.Code) int {
	switch code {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidGraph, apperrors.ErrCodeInvalidNodeID,
		apperrors.ErrCodeInvalidFormat, apperrors.ErrCodeInvalidConfig, apperrors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case apperrors.ErrCodeCycleDetected, apperrors.ErrCodeOrderViolation:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case apperrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case apperrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
