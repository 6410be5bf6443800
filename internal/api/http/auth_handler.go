package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"membership-backend/internal/domain"
	"membership-backend/internal/service"
	"membership-backend/internal/verify"
)

type AuthHandler struct {
	authSvc service.AuthService
}

func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	MemberID string `json:"member_id"`
	Password string `json:"password"`
}

type accountResponse struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	MemberID           string     `json:"member_id"`
	Status             string     `json:"status"`
	VerificationStatus string     `json:"verification_status"`
	VerificationNote   string     `json:"verification_note,omitempty"`
	RejectionReason    string     `json:"rejection_reason,omitempty"`
	ReappliedAt        *time.Time `json:"reapplied_at,omitempty"`
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:                 a.ID,
		Name:               a.Name,
		Email:              a.Email,
		MemberID:           a.MemberID,
		Status:             string(a.Status),
		VerificationStatus: string(a.VerificationStatus),
		VerificationNote:   a.VerificationNote,
		RejectionReason:    a.RejectionReason,
		ReappliedAt:        a.ReappliedAt,
	}
}

func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.MemberID == "" {
		writeError(w, http.StatusBadRequest, "email, password and member_id are required")
		return
	}

	account, err := h.authSvc.Signup(r.Context(), service.SignupRequest{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		MemberID: req.MemberID,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, verify.ErrInvalidPhone):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, verify.ErrDuplicateActiveAccount),
			errors.Is(err, service.ErrAccountExists):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "signup failed")
		}
		return
	}
	writeJSON(w, http.StatusCreated, toAccountResponse(account))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Account      accountResponse `json:"account"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, access, refresh, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountPending),
			errors.Is(err, service.ErrAccountRejected):
			writeError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "login failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Account:      toAccountResponse(account),
		AccessToken:  access,
		RefreshToken: refresh,
	})
}
