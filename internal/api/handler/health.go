package handler

import (
	"net/http"

	"github.com/pveiga/digitduel/internal/api/response"
)

// Health handles GET /health
func Health(w http.ResponseWriter, _ *http.Request) {
	response.WriteJSON(w, http.StatusOK, response.Health{Status: "ok"})
}
