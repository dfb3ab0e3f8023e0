package service

import (
	"errors"
	"log/slog"

	"github.com/dom/kanban-board/internal/domain"
	"gorm.io/gorm"
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// storeFailure is the service boundary for unexpected errors: domain errors
// pass through, anything else is logged with its cause and reported as
// domain.ErrStoreUnavailable.
func storeFailure(log *slog.Logger, op string, err error) error {
	if err == nil || domain.IsDomainError(err) {
		return err
	}
	log.Error("store failure", "op", op, "err", err)
	return domain.ErrStoreUnavailable
}

// notFoundAs maps a lookup miss to target and everything else through storeFailure.
func notFoundAs(log *slog.Logger, op string, err error, target error) error {
	if isNotFound(err) {
		return target
	}
	return storeFailure(log, op, err)
}
