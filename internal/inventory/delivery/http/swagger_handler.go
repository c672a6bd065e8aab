package http

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/pharmacy-backend/pkg/response"
)

// RegisterSwaggerDocs registers Swagger documentation routes
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// RegisterHealthCheck registers the liveness and readiness endpoints
// @Summary Health check
// @Description Check service health and database connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} healthResponse
// @Failure 503 {object} healthResponse
// @Router /health [get]
func RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"message": "pong"})
	}).Methods("GET")

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			response.JSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", Database: "unavailable"})
			return
		}
		response.JSON(w, http.StatusOK, healthResponse{Status: "ok", Database: "up"})
	}).Methods("GET")
}
