package handler

import (
	"encoding/json"
	"net/http"

	"codearena/internal/app/service"
	"codearena/internal/common"

	"github.com/go-chi/chi/v5"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

func NewSubmissionHandler(ss *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: ss}
}

func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.createSubmission)          // POST /api/v1/submissions
	r.Get("/{submissionID}", h.getSubmission) // GET /api/v1/submissions/{id}
}

type CreateSubmissionResponse struct {
	SubmissionID string `json:"submission_id"`
	Status       string `json:"status"`
}

func (h *SubmissionHandler) createSubmission(w http.ResponseWriter, r *http.Request) {
	var req service.CreateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	submission, err := h.submissionService.CreateSubmission(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	// 202: the record exists but grading finishes in the background.
	common.RespondWithJSON(w, http.StatusAccepted, CreateSubmissionResponse{
		SubmissionID: submission.ID,
		Status:       string(submission.Status),
	})
}

func (h *SubmissionHandler) getSubmission(w http.ResponseWriter, r *http.Request) {
	submissionID := chi.URLParam(r, "submissionID")

	submission, err := h.submissionService.GetSubmission(r.Context(), submissionID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submission)
}
