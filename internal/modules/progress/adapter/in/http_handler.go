package in

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	gamificationdto "pomodoro/internal/modules/gamification/dto"
	gamificationin "pomodoro/internal/modules/gamification/port/in"
	"pomodoro/internal/modules/progress/dto"
	progressin "pomodoro/internal/modules/progress/port/in"
	apperrors "pomodoro/internal/platform/errors"
	"pomodoro/internal/platform/httpx"
)

const (
	defaultHistoryDays = 7
	maxBodyBytes       = 1 << 16
)

type logSessionResponse struct {
	Success      bool                  `json:"success"`
	Message      string                `json:"message"`
	Gamification *gamificationResponse `json:"gamification,omitempty"`
}

type gamificationResponse struct {
	XPGained        int                   `json:"xp_gained"`
	TotalXP         int                   `json:"total_xp"`
	Level           int                   `json:"level"`
	LeveledUp       bool                  `json:"leveled_up"`
	NewAchievements []achievementResponse `json:"new_achievements"`
}

type achievementResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type progressResponse struct {
	Count   int `json:"count"`
	Minutes int `json:"minutes"`
}

type dayResponse struct {
	Date    string `json:"date"`
	Count   int    `json:"count"`
	Minutes int    `json:"minutes"`
}

type historyResponse struct {
	Days []dayResponse `json:"days"`
}

// HTTPHandler serves the session log and progress endpoints. Gamification is optional.
type HTTPHandler struct {
	usecase      progressin.Usecase
	gamification gamificationin.Usecase
	logger       zerolog.Logger
}

func NewHTTPHandler(usecase progressin.Usecase, gamification gamificationin.Usecase, logger zerolog.Logger) HTTPHandler {
	return HTTPHandler{usecase: usecase, gamification: gamification, logger: logger}
}

func (h HTTPHandler) Routes(r chi.Router) {
	r.Post("/api/session", h.LogSession)
	r.Get("/api/progress", h.Progress)
	r.Get("/api/history", h.History)
}

func (h HTTPHandler) LogSession(w http.ResponseWriter, r *http.Request) {
	input, err := decodeLogSession(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	record, err := h.usecase.LogSession(r.Context(), input)
	if err != nil {
		var verr *apperrors.ValidationError
		if errors.As(err, &verr) {
			httpx.WriteError(w, http.StatusBadRequest, verr.Message)
			return
		}
		h.logger.Error().Err(err).Msg("log session")
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to log session")
		return
	}

	resp := logSessionResponse{Success: true, Message: "Session logged successfully"}
	if h.gamification != nil && record.Kind != "break" {
		award, err := h.gamification.RecordSession(r.Context(), gamificationdto.RecordSessionInput{Date: record.Date})
		if err != nil {
			h.logger.Warn().Err(err).Str("record_id", record.ID).Msg("update gamification")
		} else {
			resp.Gamification = toGamificationResponse(award)
		}
	}
	httpx.WriteJSON(w, http.StatusCreated, resp)
}

func (h HTTPHandler) Progress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.usecase.GetTodayProgress(r.Context())
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to get progress")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, progressResponse{Count: progress.Count, Minutes: progress.Minutes})
}

func (h HTTPHandler) History(w http.ResponseWriter, r *http.Request) {
	days := defaultHistoryDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "days must be an integer")
			return
		}
		days = parsed
	}
	history, err := h.usecase.GetHistory(r.Context(), dto.HistoryInput{Days: days})
	if err != nil {
		var verr *apperrors.ValidationError
		if errors.As(err, &verr) {
			httpx.WriteError(w, http.StatusBadRequest, verr.Message)
			return
		}
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to get history")
		return
	}
	resp := historyResponse{Days: make([]dayResponse, 0, len(history.Days))}
	for _, day := range history.Days {
		resp.Days = append(resp.Days, dayResponse{Date: day.Date, Count: day.Count, Minutes: day.Minutes})
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// decodeLogSession treats a missing or malformed body as {} so defaults apply.
// A present duration must be a JSON integer and a present timestamp a JSON string.
func decodeLogSession(r *http.Request) (dto.LogSessionInput, error) {
	input := dto.LogSessionInput{}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return input, nil
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return input, nil
	}

	if value, ok := fields["duration"]; ok {
		duration, err := strconv.Atoi(string(bytes.TrimSpace(value)))
		if err != nil {
			return input, apperrors.NewValidation("duration", "Duration must be at least 30 seconds")
		}
		input.Duration = &duration
	}
	if value, ok := fields["timestamp"]; ok && string(bytes.TrimSpace(value)) != "null" {
		var timestamp string
		if err := json.Unmarshal(value, &timestamp); err != nil {
			return input, apperrors.NewValidation("timestamp", "Timestamp must be an ISO-8601 date-time")
		}
		input.Timestamp = &timestamp
	}
	if value, ok := fields["kind"]; ok {
		var kind string
		if err := json.Unmarshal(value, &kind); err != nil {
			return input, apperrors.NewValidation("kind", "Kind must be focus or break")
		}
		input.Kind = kind
	}
	return input, nil
}

func toGamificationResponse(award gamificationdto.AwardOutput) *gamificationResponse {
	resp := &gamificationResponse{
		XPGained:        award.XPGained,
		TotalXP:         award.TotalXP,
		Level:           award.Level,
		LeveledUp:       award.LeveledUp,
		NewAchievements: make([]achievementResponse, 0, len(award.NewAchievements)),
	}
	for _, a := range award.NewAchievements {
		resp.NewAchievements = append(resp.NewAchievements, achievementResponse{ID: a.ID, Name: a.Name, Description: a.Description, Icon: a.Icon})
	}
	return resp
}
