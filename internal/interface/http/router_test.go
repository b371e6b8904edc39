package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/akhilvs/sarvajna/internal/domain/assistant"
	"github.com/akhilvs/sarvajna/internal/domain/auth"
	"github.com/akhilvs/sarvajna/internal/domain/kb"
	"github.com/akhilvs/sarvajna/internal/infra/config"
	apperrors "github.com/akhilvs/sarvajna/pkg/errors"
)

func TestRouter_AskSuccess(t *testing.T) {
	resp := assistant.Response{Question: "library hours", Answer: "library timing: 9 AM to 5 PM", Source: "kb"}
	svc := &stubAssistant{
		answerFn: func(ctx context.Context, req assistant.Request) (assistant.Response, error) {
			require.Equal(t, "library hours", req.Question)
			return resp, nil
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/assistant/ask", `{"question":"library hours"}`, "", newRouterUnderTest(t, svc, &stubAuthService{}))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotEmpty(t, recorder.Header().Get("X-Request-ID"))

	var got assistant.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, resp, got)
}

func TestRouter_AskInvalidJSON(t *testing.T) {
	recorder := performRequest(http.MethodPost, "/api/v1/assistant/ask", `{"question":123}`, "", newRouterUnderTest(t, &stubAssistant{}, &stubAuthService{}))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.NotEmpty(t, errBody["error"]["message"])
}

func TestRouter_AskEmptyQuestion(t *testing.T) {
	svc := &stubAssistant{
		answerFn: func(ctx context.Context, req assistant.Request) (assistant.Response, error) {
			return assistant.Response{}, apperrors.Wrap("invalid_input", "question cannot be empty", nil)
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/assistant/ask", `{"question":""}`, "", newRouterUnderTest(t, svc, &stubAuthService{}))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.Contains(t, errBody["error"]["message"], "question cannot be empty")
}

func TestRouter_AskLLMFailure(t *testing.T) {
	svc := &stubAssistant{
		answerFn: func(ctx context.Context, req assistant.Request) (assistant.Response, error) {
			return assistant.Response{}, apperrors.Wrap("llm_error", "chat completion failed", nil)
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/assistant/ask", `{"question":"fees"}`, "", newRouterUnderTest(t, svc, &stubAuthService{}))
	require.Equal(t, http.StatusBadGateway, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "llm_error", errBody["error"]["code"])
}

func TestRouter_SpeakSuccess(t *testing.T) {
	svc := &stubAssistant{
		speakFn: func(ctx context.Context, req assistant.VoiceRequest) (assistant.VoiceResponse, error) {
			require.Equal(t, "hostel fees", req.Question)
			return assistant.VoiceResponse{
				Response:    assistant.Response{Question: req.Question, Answer: "hostel fee: 45000 per year", Source: "kb"},
				AudioBase64: "YXVkaW8=",
				MimeType:    "audio/wav",
			}, nil
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/assistant/speak", `{"question":"hostel fees"}`, "", newRouterUnderTest(t, svc, &stubAuthService{}))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got assistant.VoiceResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, "YXVkaW8=", got.AudioBase64)
	require.Equal(t, "audio/wav", got.MimeType)
}

func TestRouter_Trending(t *testing.T) {
	svc := &stubAssistant{
		trendingFn: func(ctx context.Context) ([]assistant.TrendingQuery, error) {
			return []assistant.TrendingQuery{{Query: "library hours", Count: 4}}, nil
		},
	}

	recorder := performRequest(http.MethodGet, "/api/v1/assistant/trending", "", "", newRouterUnderTest(t, svc, &stubAuthService{}))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Recommendations []assistant.TrendingQuery `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Recommendations, 1)
	require.Equal(t, "library hours", body.Recommendations[0].Query)
}

func TestRouter_ReloadRequiresToken(t *testing.T) {
	recorder := performRequest(http.MethodPost, "/api/v1/kb/reload", "", "", newRouterUnderTest(t, &stubAssistant{}, &stubAuthService{}))
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "unauthorized", errBody["error"]["code"])
}

func TestRouter_ReloadWithEditorRole(t *testing.T) {
	reloaded := false
	svc := &stubAssistant{
		reloadFn: func(ctx context.Context) error {
			reloaded = true
			return nil
		},
	}
	authSvc := &stubAuthService{
		validateFn: func(ctx context.Context, token string) (auth.Claims, error) {
			require.Equal(t, "editor-token", token)
			return auth.Claims{UserID: 7, Email: "staff@college.ac.in", Role: auth.RoleEditor, TokenType: "access"}, nil
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/kb/reload", "", "Bearer editor-token", newRouterUnderTest(t, svc, authSvc))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.True(t, reloaded)
}

func TestRouter_ReloadRejectsUnknownRole(t *testing.T) {
	authSvc := &stubAuthService{
		validateFn: func(ctx context.Context, token string) (auth.Claims, error) {
			return auth.Claims{UserID: 7, Email: "staff@college.ac.in", Role: auth.Role("viewer"), TokenType: "access"}, nil
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/kb/reload", "", "Bearer viewer-token", newRouterUnderTest(t, &stubAssistant{}, authSvc))
	require.Equal(t, http.StatusForbidden, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "forbidden", errBody["error"]["code"])
}

func TestRouter_ListEntries(t *testing.T) {
	svc := &stubAssistant{
		listFn: func(ctx context.Context) ([]kb.Entry, error) {
			return []kb.Entry{{ID: "library"}, {ID: "fees"}}, nil
		},
	}
	authSvc := &stubAuthService{
		validateFn: func(ctx context.Context, token string) (auth.Claims, error) {
			return auth.Claims{UserID: 1, Role: auth.RoleAdmin, TokenType: "access"}, nil
		},
	}

	recorder := performRequest(http.MethodGet, "/api/v1/kb/entries", "", "Bearer admin-token", newRouterUnderTest(t, svc, authSvc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Entries []kb.Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Entries, 2)
	require.Equal(t, "library", body.Entries[0].ID)
}

func TestRouter_UpsertEntry(t *testing.T) {
	var saved kb.Entry
	svc := &stubAssistant{
		saveFn: func(ctx context.Context, entry kb.Entry) error {
			saved = entry
			return nil
		},
	}
	authSvc := &stubAuthService{
		validateFn: func(ctx context.Context, token string) (auth.Claims, error) {
			return auth.Claims{UserID: 1, Role: auth.RoleAdmin, TokenType: "access"}, nil
		},
	}

	body := `{"id":"library","question_patterns":["library hours"],"answer_facts":{"library_timing":"9 AM to 5 PM"}}`
	recorder := performRequest(http.MethodPut, "/api/v1/kb/entries", body, "Bearer admin-token", newRouterUnderTest(t, svc, authSvc))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "library", saved.ID)
	require.Equal(t, []string{"library hours"}, saved.QuestionPatterns)
}

func TestRouter_ProfileRequiresToken(t *testing.T) {
	recorder := performRequest(http.MethodGet, "/api/v1/auth/profile", "", "", newRouterUnderTest(t, &stubAssistant{}, &stubAuthService{}))
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRouter_LoginInvalidCredentials(t *testing.T) {
	authSvc := &stubAuthService{
		loginFn: func(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
			return auth.LoginResponse{}, apperrors.Wrap("invalid_credentials", "invalid email or password", nil)
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/auth/login", `{"email":"a@b.c","password":"x"}`, "", newRouterUnderTest(t, &stubAssistant{}, authSvc))
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_credentials", errBody["error"]["code"])
}

func performRequest(method, path, body, authorization string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, svc assistant.Service, authSvc auth.Service) *http.Server {
	t.Helper()
	handler := NewHandler(svc, authSvc, newTestLogger())
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return NewRouter(cfg, handler, authSvc)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubAssistant struct {
	answerFn   func(ctx context.Context, req assistant.Request) (assistant.Response, error)
	speakFn    func(ctx context.Context, req assistant.VoiceRequest) (assistant.VoiceResponse, error)
	trendingFn func(ctx context.Context) ([]assistant.TrendingQuery, error)
	listFn     func(ctx context.Context) ([]kb.Entry, error)
	reloadFn   func(ctx context.Context) error
	saveFn     func(ctx context.Context, entry kb.Entry) error
}

func (s *stubAssistant) Answer(ctx context.Context, req assistant.Request) (assistant.Response, error) {
	if s.answerFn != nil {
		return s.answerFn(ctx, req)
	}
	return assistant.Response{}, nil
}

func (s *stubAssistant) Speak(ctx context.Context, req assistant.VoiceRequest) (assistant.VoiceResponse, error) {
	if s.speakFn != nil {
		return s.speakFn(ctx, req)
	}
	return assistant.VoiceResponse{}, nil
}

func (s *stubAssistant) Trending(ctx context.Context) ([]assistant.TrendingQuery, error) {
	if s.trendingFn != nil {
		return s.trendingFn(ctx)
	}
	return nil, nil
}

func (s *stubAssistant) ListEntries(ctx context.Context) ([]kb.Entry, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return nil, nil
}

func (s *stubAssistant) ReloadEntries(ctx context.Context) error {
	if s.reloadFn != nil {
		return s.reloadFn(ctx)
	}
	return nil
}

func (s *stubAssistant) SaveEntry(ctx context.Context, entry kb.Entry) error {
	if s.saveFn != nil {
		return s.saveFn(ctx, entry)
	}
	return nil
}

type stubAuthService struct {
	loginFn    func(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error)
	validateFn func(ctx context.Context, token string) (auth.Claims, error)
}

func (s *stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (auth.UserView, error) {
	return auth.UserView{}, nil
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if s.loginFn != nil {
		return s.loginFn(ctx, req)
	}
	return auth.LoginResponse{}, nil
}

func (s *stubAuthService) GoogleAuthURL(ctx context.Context, state, codeChallenge string) (string, error) {
	return "https://accounts.google.com/o/oauth2/auth", nil
}

func (s *stubAuthService) GoogleCallback(ctx context.Context, code, codeVerifier string) (auth.LoginResponse, error) {
	return auth.LoginResponse{}, nil
}

func (s *stubAuthService) ValidateToken(ctx context.Context, token string) (auth.Claims, error) {
	if s.validateFn != nil {
		return s.validateFn(ctx, token)
	}
	return auth.Claims{}, apperrors.Wrap("invalid_token", "token invalid", nil)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (auth.LoginResponse, error) {
	return auth.LoginResponse{}, nil
}

func (s *stubAuthService) Profile(ctx context.Context, userID int64) (auth.UserView, error) {
	return auth.UserView{}, nil
}

func (s *stubAuthService) Logout(ctx context.Context, userID int64) error {
	return nil
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
