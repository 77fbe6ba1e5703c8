package in

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"pomodoro/internal/modules/gamification/dto"
	gamificationin "pomodoro/internal/modules/gamification/port/in"
	"pomodoro/internal/platform/httpx"
)

type achievementResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Unlocked    bool   `json:"unlocked"`
}

type statusResponse struct {
	XP                   int                   `json:"xp"`
	Level                int                   `json:"level"`
	XPProgress           int                   `json:"xp_progress"`
	XPNeeded             int                   `json:"xp_needed"`
	XPPercentage         float64               `json:"xp_percentage"`
	CurrentStreak        int                   `json:"current_streak"`
	LongestStreak        int                   `json:"longest_streak"`
	Achievements         []achievementResponse `json:"achievements"`
	UnlockedAchievements []achievementResponse `json:"unlocked_achievements"`
	TotalAchievements    int                   `json:"total_achievements"`
	UnlockedCount        int                   `json:"unlocked_count"`
}

type windowResponse struct {
	Total          int     `json:"total"`
	Average        float64 `json:"average"`
	CompletionRate float64 `json:"completion_rate"`
	Days           int     `json:"days"`
}

type statsResponse struct {
	Weekly  windowResponse `json:"weekly"`
	Monthly windowResponse `json:"monthly"`
}

type HTTPHandler struct {
	usecase gamificationin.Usecase
	logger  zerolog.Logger
}

func NewHTTPHandler(usecase gamificationin.Usecase, logger zerolog.Logger) HTTPHandler {
	return HTTPHandler{usecase: usecase, logger: logger}
}

func (h HTTPHandler) Routes(r chi.Router) {
	r.Get("/api/gamification", h.Status)
	r.Get("/api/stats", h.Stats)
}

func (h HTTPHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.usecase.Status(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("read gamification profile")
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to get gamification data")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, statusResponse{
		XP:                   status.XP,
		Level:                status.Level,
		XPProgress:           status.XPProgress,
		XPNeeded:             status.XPNeeded,
		XPPercentage:         status.XPPercentage,
		CurrentStreak:        status.CurrentStreak,
		LongestStreak:        status.LongestStreak,
		Achievements:         toAchievements(status.Achievements),
		UnlockedAchievements: toAchievements(status.Unlocked),
		TotalAchievements:    status.TotalAchievements,
		UnlockedCount:        status.UnlockedCount,
	})
}

func (h HTTPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.usecase.Stats(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("compute stats")
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to get stats")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, statsResponse{Weekly: toWindow(stats.Weekly), Monthly: toWindow(stats.Monthly)})
}

func toAchievements(items []dto.AchievementOutput) []achievementResponse {
	out := make([]achievementResponse, 0, len(items))
	for _, a := range items {
		out = append(out, achievementResponse{ID: a.ID, Name: a.Name, Description: a.Description, Icon: a.Icon, Unlocked: a.Unlocked})
	}
	return out
}

func toWindow(w dto.WindowStats) windowResponse {
	return windowResponse{Total: w.Total, Average: w.Average, CompletionRate: w.CompletionRate, Days: w.Days}
}
