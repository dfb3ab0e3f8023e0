package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dom/kanban-board/internal/domain"
	"github.com/dom/kanban-board/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewBuffer(raw))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func issuedCode(t *testing.T, ts *testutil.TestServer, email string) string {
	t.Helper()
	var v domain.UserVerification
	require.NoError(t, ts.DB.DB.Where("email = ?", email).Order("id DESC").First(&v).Error)
	return v.Code
}

func TestAuthHandler_Register(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name           string
		email          string
		request        func(code string) map[string]string
		setup          func()
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name:  "successful registration",
			email: "newuser@example.com",
			request: func(code string) map[string]string {
				return map[string]string{
					"fullName": "New User",
					"email":    "newuser@example.com",
					"password": "password123",
					"code":     code,
				}
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *http.Response) {
				result := testutil.DecodeEnvelope[testutil.AuthResponse](t, resp)
				assert.Equal(t, "New User", result.User.FullName)
				assert.Equal(t, "newuser@example.com", result.User.Email)
				assert.NotEmpty(t, result.AccessToken)
			},
		},
		{
			name:  "wrong code",
			email: "newuser@example.com",
			request: func(code string) map[string]string {
				wrong := "000000"
				if code == wrong {
					wrong = "111111"
				}
				return map[string]string{
					"fullName": "New User",
					"email":    "newuser@example.com",
					"password": "password123",
					"code":     wrong,
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "missing full name",
			email: "newuser@example.com",
			request: func(code string) map[string]string {
				return map[string]string{
					"email":    "newuser@example.com",
					"password": "password123",
					"code":     code,
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "duplicate email",
			email: "existing@example.com",
			request: func(code string) map[string]string {
				return map[string]string{
					"fullName": "Someone",
					"email":    "existing@example.com",
					"password": "password123",
					"code":     code,
				}
			},
			setup: func() {
				testutil.NewUserBuilder().
					WithEmail("existing@example.com").
					Build(t, ts.DB.DB)
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.Reset(t)

			if tt.setup != nil {
				tt.setup()
			}

			resp := post(t, ts.APIURL("/auth/verify-code"), map[string]string{"email": tt.email})
			require.Equal(t, http.StatusOK, resp.StatusCode)
			code := issuedCode(t, ts, tt.email)

			resp = post(t, ts.APIURL("/auth/register"), tt.request(code))
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestAuthHandler_VerifyCode(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := post(t, ts.APIURL("/auth/verify-code"), map[string]string{"email": "not an email"})
	testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "invalid email")

	for i := 0; i < ts.Config.VerifyCodesPerDay; i++ {
		resp = post(t, ts.APIURL("/auth/verify-code"), map[string]string{"email": "busy@example.com"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp = post(t, ts.APIURL("/auth/verify-code"), map[string]string{"email": "busy@example.com"})
	testutil.AssertErrorResponse(t, resp, http.StatusTooManyRequests, "daily limit")

	assert.Len(t, ts.Mails(), ts.Config.VerifyCodesPerDay)
}

func TestAuthHandler_Login(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, rawPassword := testutil.NewUserBuilder().
		WithFullName("Login User").
		WithPassword("correctpassword").
		Build(t, ts.DB.DB)

	tests := []struct {
		name           string
		request        map[string]string
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name: "successful login",
			request: map[string]string{
				"email":    user.Email,
				"password": rawPassword,
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				result := testutil.DecodeEnvelope[testutil.AuthResponse](t, resp)
				assert.Equal(t, user.ID, result.User.ID)
				assert.Equal(t, "Login User", result.User.FullName)
				assert.NotEmpty(t, result.AccessToken)
			},
		},
		{
			name: "invalid password",
			request: map[string]string{
				"email":    user.Email,
				"password": "wrongpassword",
			},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp *http.Response) {
				testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "invalid credentials")
			},
		},
		{
			name: "non-existent user",
			request: map[string]string{
				"email":    "nobody@example.com",
				"password": "anypassword",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.APIURL("/auth/login"), tt.request)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestAuthHandler_Me(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().
		WithFullName("Me User").
		BuildAndAuthenticate(t, ts)

	tests := []struct {
		name           string
		token          string
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name:           "successful fetch with valid token",
			token:          token,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				me := testutil.DecodeEnvelope[domain.User](t, resp)
				assert.Equal(t, user.ID, me.ID)
				assert.Equal(t, "Me User", me.FullName)
			},
		},
		{
			name:           "missing authorization header",
			token:          "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			token:          "invalid.token.here",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed token",
			token:          "notajwt",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.Do(t, http.MethodGet, ts.APIURL("/auth/me"), nil, tt.token)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestAuthHandler_ChangePasswordRevokesOldTokens(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().
		WithPassword("original-password").
		BuildAndAuthenticate(t, ts)

	resp := testutil.Do(t, http.MethodPut, ts.APIURL("/auth/password"), map[string]string{
		"oldPassword": "original-password",
		"newPassword": "replacement-password",
	}, token)
	fresh := testutil.DecodeEnvelope[testutil.AuthResponse](t, resp)

	resp = testutil.Do(t, http.MethodGet, ts.APIURL("/auth/me"), nil, token)
	testutil.AssertErrorResponse(t, resp, http.StatusForbidden, "no longer valid")

	resp = testutil.Do(t, http.MethodGet, ts.APIURL("/auth/me"), nil, fresh.AccessToken)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
}
