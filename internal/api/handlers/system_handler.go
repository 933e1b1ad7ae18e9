package handlers

import (
	"net/http"
	"time"

	"github.com/isdelr/task-manager-be/internal/api/response"
)

// APIVersion is reported by the welcome endpoint.
const APIVersion = "1.0.0"

// Health reports that the process is serving requests.
func Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"status":    "ok",
		"message":   "Server is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Welcome describes the API root.
func Welcome(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       "Welcome to Task Management API",
		"version":       APIVersion,
		"documentation": "/api-docs",
	})
}

// NotFound answers unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusNotFound, map[string]any{
		"success": false,
		"message": "Route not found",
		"path":    r.URL.Path,
	})
}

// MethodNotAllowed answers known routes hit with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusMethodNotAllowed, map[string]any{
		"success": false,
		"message": "Method not allowed",
		"path":    r.URL.Path,
	})
}
