package handler

import (
	"net/http"

	"codearena/internal/app/service"
	"codearena/internal/common"
	"codearena/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type ContestHandler struct {
	contestService     *service.ContestService
	leaderboardService *service.LeaderboardService
}

func NewContestHandler(cs *service.ContestService, ls *service.LeaderboardService) *ContestHandler {
	return &ContestHandler{contestService: cs, leaderboardService: ls}
}

func (h *ContestHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listContests)                            // GET /api/v1/contests
	r.Get("/{contestID}", h.getContest)                   // GET /api/v1/contests/{id}
	r.Get("/{contestID}/leaderboard", h.getLeaderboard)   // GET /api/v1/contests/{id}/leaderboard
}

func (h *ContestHandler) listContests(w http.ResponseWriter, r *http.Request) {
	contests, err := h.contestService.ListContests(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if contests == nil {
		contests = []model.Contest{}
	}
	common.RespondWithJSON(w, http.StatusOK, contests)
}

func (h *ContestHandler) getContest(w http.ResponseWriter, r *http.Request) {
	contestID := chi.URLParam(r, "contestID")

	contest, err := h.contestService.GetContestDetails(r.Context(), contestID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contest)
}

type LeaderboardResponse struct {
	Leaderboard []model.LeaderboardEntry `json:"leaderboard"`
	Stats       model.LeaderboardStats   `json:"stats"`
}

func (h *ContestHandler) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	contestID := chi.URLParam(r, "contestID")

	entries, stats, err := h.leaderboardService.BuildLeaderboard(r.Context(), contestID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	common.RespondWithJSON(w, http.StatusOK, LeaderboardResponse{Leaderboard: entries, Stats: stats})
}
