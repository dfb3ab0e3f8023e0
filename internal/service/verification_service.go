package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/dom/kanban-board/internal/clock"
	"github.com/dom/kanban-board/internal/config"
	"github.com/dom/kanban-board/internal/domain"
	"github.com/dom/kanban-board/internal/mail"
	"github.com/dom/kanban-board/internal/repository"
)

const (
	verifyCodeDigits = 6
	rateWindow       = 24 * time.Hour
)

// VerificationService issues and consumes the one-time codes mailed during
// registration.
type VerificationService struct {
	codes  repository.VerificationRepository
	mailer Mailer
	cfg    *config.Config
	clk    clock.Clock
	log    *slog.Logger
}

func NewVerificationService(codes repository.VerificationRepository, mailer Mailer, cfg *config.Config, clk clock.Clock, log *slog.Logger) *VerificationService {
	return &VerificationService{
		codes:  codes,
		mailer: mailer,
		cfg:    cfg,
		clk:    clk,
		log:    log,
	}
}

// GenerateAndSaveVerifyCode stores a fresh code for email and mails it once
// the row is committed.
func (s *VerificationService) GenerateAndSaveVerifyCode(ctx context.Context, rawEmail string) error {
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return err
	}

	now := s.clk.Now()
	sent, err := s.codes.CountSince(ctx, email, now.Add(-rateWindow))
	if err != nil {
		return storeFailure(s.log, "verification.Generate", err)
	}
	if sent >= int64(s.cfg.VerifyCodesPerDay) {
		return domain.ErrRateLimited
	}

	code, err := randomCode(verifyCodeDigits)
	if err != nil {
		return storeFailure(s.log, "verification.Generate", err)
	}

	v := &domain.UserVerification{
		Email:     email,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.VerifyCodeTTL),
	}
	if err := s.codes.Create(ctx, v); err != nil {
		return storeFailure(s.log, "verification.Generate", err)
	}

	msg, err := mail.VerifyCodeMessage(email, mail.VerifyCodeData{Code: code, ExpiresAt: v.ExpiresAt})
	if err != nil {
		s.log.Error("render verification mail", "email", email, "err", err)
		return nil
	}
	s.mailer.Dispatch(msg)
	return nil
}

// VerifyCodeAndUpdate consumes the most recently issued code for email.
// A wrong or expired code is ErrInvalidVerifyCode and leaves the code
// usable; resubmitting a code that was already consumed is
// ErrVerifyCodeAlreadyUsed.
func (s *VerificationService) VerifyCodeAndUpdate(ctx context.Context, rawEmail, code string) error {
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return err
	}

	v, err := s.codes.Latest(ctx, email)
	if err != nil {
		return notFoundAs(s.log, "verification.Verify", err, domain.ErrInvalidVerifyCode)
	}
	if subtle.ConstantTimeCompare([]byte(v.Code), []byte(strings.TrimSpace(code))) != 1 {
		return domain.ErrInvalidVerifyCode
	}
	if v.IsUsed {
		return domain.ErrVerifyCodeAlreadyUsed
	}
	if !v.Usable(s.clk.Now()) {
		return domain.ErrInvalidVerifyCode
	}

	ok, err := s.codes.MarkUsed(ctx, v.ID)
	if err != nil {
		return storeFailure(s.log, "verification.Verify", err)
	}
	if !ok {
		return domain.ErrVerifyCodeAlreadyUsed
	}
	return nil
}

func randomCode(digits int) (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < digits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
