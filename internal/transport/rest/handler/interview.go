package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/opsych/ophtheon/internal/model"
	"github.com/opsych/ophtheon/internal/protocol"
	"github.com/opsych/ophtheon/internal/service"
)

// InterviewHandler handles interview session endpoints
type InterviewHandler struct {
	interviewSvc *service.InterviewService
}

// NewInterviewHandler creates a new interview handler
func NewInterviewHandler(interviewSvc *service.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviewSvc: interviewSvc}
}

// interviewResponse pairs the session with the render view for its stage
type interviewResponse struct {
	Session *model.InterviewSession `json:"session"`
	View    *protocol.StageView     `json:"view"`
}

// validationResponse carries a rule violation back to the console. The
// session is unchanged; the console re-renders the stage with the message.
type validationResponse struct {
	Error   string              `json:"error"`
	Stage   model.Stage         `json:"stage"`
	Code    string              `json:"code"`
	Message string              `json:"message"`
	View    *protocol.StageView `json:"view,omitempty"`
}

// Create handles POST /v1/interviews
func (h *InterviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, err := h.interviewSvc.Create(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create interview")
		return
	}
	writeJSON(w, http.StatusCreated, &interviewResponse{
		Session: session,
		View:    protocol.Describe(session),
	})
}

// OffenseCatalog handles GET /v1/catalog/offenses. The intake form renders
// its category and subtype pickers from this.
func (h *InterviewHandler) OffenseCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.OffenseCategories)
}

// List handles GET /v1/interviews. Only archived (completed) interviews are
// listed; in-flight sessions are reachable by ID.
func (h *InterviewHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := int64(50)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	sessions, err := h.interviewSvc.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list interviews")
		return
	}
	if sessions == nil {
		sessions = []*model.InterviewSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

// Get handles GET /v1/interviews/{id}
func (h *InterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	session, err := h.interviewSvc.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, id, err)
		return
	}
	writeJSON(w, http.StatusOK, &interviewResponse{
		Session: session,
		View:    protocol.Describe(session),
	})
}

// Advance handles POST /v1/interviews/{id}/advance
func (h *InterviewHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var input protocol.AdvanceInput
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	session, err := h.interviewSvc.Advance(r.Context(), id, &input)
	if err != nil {
		h.writeServiceError(w, r, id, err)
		return
	}
	writeJSON(w, http.StatusOK, &interviewResponse{
		Session: session,
		View:    protocol.Describe(session),
	})
}

// Back handles POST /v1/interviews/{id}/back
func (h *InterviewHandler) Back(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	session, err := h.interviewSvc.Back(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, id, err)
		return
	}
	writeJSON(w, http.StatusOK, &interviewResponse{
		Session: session,
		View:    protocol.Describe(session),
	})
}

// Reset handles POST /v1/interviews/{id}/reset
func (h *InterviewHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	session, err := h.interviewSvc.Reset(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, id, err)
		return
	}
	writeJSON(w, http.StatusOK, &interviewResponse{
		Session: session,
		View:    protocol.Describe(session),
	})
}

// Delete handles DELETE /v1/interviews/{id}
func (h *InterviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.interviewSvc.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, id, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Export handles GET /v1/interviews/{id}/export. The finalized question set
// is returned as a downloadable text file in the interchange format.
func (h *InterviewHandler) Export(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	text, err := h.interviewSvc.Export(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, id, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="question_set_%s.txt"`, id))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}

// writeServiceError maps service errors to HTTP responses. Validation
// failures come back as 422 with the stage view so the console can re-render
// in place.
func (h *InterviewHandler) writeServiceError(w http.ResponseWriter, r *http.Request, id string, err error) {
	var vErr *protocol.ValidationError
	if errors.As(err, &vErr) {
		resp := &validationResponse{
			Error:   "validation_failed",
			Stage:   vErr.Stage,
			Code:    vErr.Code,
			Message: vErr.Message,
		}
		if session, getErr := h.interviewSvc.Get(r.Context(), id); getErr == nil {
			resp.View = protocol.Describe(session)
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "interview not found")
	case errors.Is(err, protocol.ErrAlreadyComplete),
		errors.Is(err, protocol.ErrNoEarlierStage),
		errors.Is(err, protocol.ErrNotComplete):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
