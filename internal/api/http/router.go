package http

import (
	"encoding/json"
	"net/http"

	"membership-backend/internal/security"

	"github.com/gorilla/mux"
)

// NewRouter wires the public auth routes and the admin routes behind the
// JWT middleware.
func NewRouter(authHandler *AuthHandler, adminHandler *AdminHandler, tokens security.TokenManager) *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/signup", authHandler.HandleSignup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.HandleLogin).Methods(http.MethodPost)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(RequireAdmin(tokens))
	admin.HandleFunc("/accounts/pending", adminHandler.HandleListPending).Methods(http.MethodGet)
	admin.HandleFunc("/accounts/{id}/approve", adminHandler.HandleApprove).Methods(http.MethodPost)
	admin.HandleFunc("/accounts/{id}/reject", adminHandler.HandleReject).Methods(http.MethodPost)

	return router
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
