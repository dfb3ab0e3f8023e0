package handlers

import (
	"net/http"

	"github.com/dom/kanban-board/internal/service"
)

type AuthHandler struct {
	authService  *service.AuthService
	verification *service.VerificationService
}

func NewAuthHandler(authService *service.AuthService, verification *service.VerificationService) *AuthHandler {
	return &AuthHandler{authService: authService, verification: verification}
}

type VerifyCodeRequest struct {
	Email string `json:"email"`
}

type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *AuthHandler) SendVerifyCode(w http.ResponseWriter, r *http.Request) {
	var req VerifyCodeRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	ok(w, h.verification.GenerateAndSaveVerifyCode(r.Context(), req.Email))
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}

	result, err := h.authService.Register(r.Context(), service.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Code:     req.Code,
	})
	respond(w, http.StatusCreated, result, err)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	respond(w, http.StatusOK, result, err)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.GetUserByID(r.Context(), caller(r))
	respond(w, http.StatusOK, user, err)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}

	result, err := h.authService.ChangePassword(r.Context(), caller(r), req.OldPassword, req.NewPassword)
	respond(w, http.StatusOK, result, err)
}
