package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"membership-backend/internal/service"

	"github.com/gorilla/mux"
)

type AdminHandler struct {
	adminSvc service.AdminService
}

func NewAdminHandler(adminSvc service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

func (h *AdminHandler) HandleListPending(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.adminSvc.ListPendingAccounts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list pending accounts")
		return
	}
	resp := make([]accountResponse, 0, len(accounts))
	for i := range accounts {
		resp = append(resp, toAccountResponse(&accounts[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	account, err := h.adminSvc.ApproveAccount(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "approval failed")
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *AdminHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Reason == "" {
		writeError(w, http.StatusBadRequest, "reason is required")
		return
	}

	account, err := h.adminSvc.RejectAccount(r.Context(), mux.Vars(r)["id"], req.Reason)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "rejection failed")
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}
