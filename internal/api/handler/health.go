package handler

import (
	"net/http"

	"github.com/Rrens/doc-chat/internal/api/response"
	"github.com/Rrens/doc-chat/internal/repository/postgres"
	"github.com/Rrens/doc-chat/internal/repository/redis"
)

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck returns readiness status including dependency connectivity
func ReadyCheck(db *postgres.DB, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			response.ServiceUnavailable(w, "database not ready")
			return
		}
		if err := redisClient.Ping(r.Context()); err != nil {
			response.ServiceUnavailable(w, "redis not ready")
			return
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}
