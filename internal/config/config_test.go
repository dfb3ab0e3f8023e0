package config_test

import (
	"testing"
	"time"

	"github.com/dom/kanban-board/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(*testing.T, *config.Config)
	}{
		{
			name:    "missing jwt secret",
			env:     map[string]string{"JWT_SECRET": ""},
			wantErr: true,
		},
		{
			name: "defaults",
			env:  map[string]string{"JWT_SECRET": "secret"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "8080", cfg.Port)
				assert.Equal(t, 6*time.Hour, cfg.SessionStampTTL)
				assert.Equal(t, 72*time.Hour, cfg.InviteTTL)
				assert.Equal(t, 20, cfg.InvitesPerDay)
				assert.Equal(t, config.MailTransportLog, cfg.Mail.Transport)
			},
		},
		{
			name: "overrides",
			env: map[string]string{
				"JWT_SECRET":        "secret",
				"SESSION_STAMP_TTL": "30m",
				"INVITES_PER_DAY":   "3",
				"APP_BASE_URL":      "https://boards.example.com/",
			},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 30*time.Minute, cfg.SessionStampTTL)
				assert.Equal(t, 3, cfg.InvitesPerDay)
				assert.Equal(t, "https://boards.example.com", cfg.BaseURL)
			},
		},
		{
			name: "smtp transport without host",
			env: map[string]string{
				"JWT_SECRET":     "secret",
				"MAIL_TRANSPORT": "smtp",
			},
			wantErr: true,
		},
		{
			name: "unknown transport",
			env: map[string]string{
				"JWT_SECRET":     "secret",
				"MAIL_TRANSPORT": "pigeon",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", "production")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := config.Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}
