package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jwebster45206/story-player/pkg/state"
	"github.com/jwebster45206/story-player/pkg/storage"
)

// Achievement is one tracked ending.
type Achievement struct {
	Name string `json:"name"`
	Got  bool   `json:"got"`
}

type AchievementsResponse struct {
	Endings  []Achievement `json:"endings"`
	Unlocked int           `json:"unlocked"`
	Total    int           `json:"total"`
}

type AchievementsHandler struct {
	store  storage.Store
	key    string
	logger *slog.Logger
}

func NewAchievementsHandler(store storage.Store, key string, logger *slog.Logger) *AchievementsHandler {
	return &AchievementsHandler{store: store, key: key, logger: logger}
}

func (h *AchievementsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
		return
	}

	data, ok, err := h.store.Get(r.Context(), h.key)
	if err != nil {
		h.logger.Error("Failed to read endings", "error", err, "key", h.key)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to read endings")
		return
	}

	record := state.NewEndingRecord()
	if ok {
		if record, err = state.DecodeEndingRecord(data); err != nil {
			h.logger.Warn("Malformed endings record", "error", err, "key", h.key)
		}
	}

	resp := AchievementsResponse{Endings: []Achievement{}, Total: len(record), Unlocked: record.Unlocked()}
	for _, name := range record.Names() {
		resp.Endings = append(resp.Endings, Achievement{Name: name, Got: record[name].Got})
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}
