package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dom/kanban-board/internal/api/middleware"
	"github.com/dom/kanban-board/internal/domain"
	"github.com/go-chi/chi/v5"
)

var (
	errBadBody = fmt.Errorf("%w: invalid request body", domain.ErrValidation)
	errBadID   = fmt.Errorf("%w: invalid id", domain.ErrValidation)
)

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	if errors.Is(err, domain.ErrRateLimited) {
		return http.StatusTooManyRequests
	}
	switch domain.Kind(err) {
	case domain.ErrNotAuthorized:
		return http.StatusNotFound
	case domain.ErrValidation:
		return http.StatusBadRequest
	case domain.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusServiceUnavailable
	}
}

// respond writes the result envelope for (data, err).
func respond[T any](w http.ResponseWriter, status int, data T, err error) {
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, status, domain.NewResult(data, nil))
}

func fail(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), domain.Fail[struct{}](err))
}

func ok(w http.ResponseWriter, err error) {
	respond(w, http.StatusOK, struct{}{}, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadBody
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}

// caller returns the authenticated user id. Routes using it sit behind
// middleware.Auth, so a miss means the router is misconfigured.
func caller(r *http.Request) int64 {
	userID, _ := middleware.GetUserID(r.Context())
	return userID
}
