package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hodan/capyd/internal/capy"
	"github.com/hodan/capyd/internal/websocket"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusMessage is the live snapshot broadcast after any mutation that moves
// the wallet, streak, or mood. Connected clients mirror it without refetching.
func statusMessage(s *capy.Store) websocket.Message {
	stats := s.Stats()
	return websocket.NewMessage("status", "updated", "", map[string]any{
		"coins":       stats.Coins,
		"streak":      stats.Streak,
		"mood":        stats.Mood,
		"daily_ratio": s.DailyCompletionRatio(),
	})
}
