package handler

import (
	"granite-core/common"
	"net/http"
)

// HealthCheck godoc
// @Summary      Show the status of the client core
// @Description  get the status of the client core
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
