package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"legallyai-backend/models"
	"legallyai-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAccounts struct {
	users   map[string]*models.User
	signup  func(service.SignupRequest) (*service.AuthResult, error)
	login   func(service.LoginRequest) (*service.AuthResult, error)
	profile *service.ProfileResult
}

func (s *stubAccounts) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, service.ErrUnauthorized
}

func (s *stubAccounts) Signup(ctx context.Context, req service.SignupRequest) (*service.AuthResult, error) {
	return s.signup(req)
}

func (s *stubAccounts) Login(ctx context.Context, req service.LoginRequest) (*service.AuthResult, error) {
	return s.login(req)
}

func (s *stubAccounts) Logout(ctx context.Context, token string) error {
	delete(s.users, token)
	return nil
}

func (s *stubAccounts) GetProfile(ctx context.Context, userID uuid.UUID) (*service.ProfileResult, error) {
	return s.profile, nil
}

func (s *stubAccounts) UpdateProfile(ctx context.Context, req service.UpdateProfileRequest) (*service.ProfileResult, error) {
	return &service.ProfileResult{User: &models.User{ID: req.UserID, FirstName: req.FirstName}}, nil
}

type stubDirectory struct {
	lawyers []*models.Lawyer
	upload  func(service.UploadAvatarRequest) (*service.UploadAvatarResult, error)
	files   map[uuid.UUID][]byte
}

func (s *stubDirectory) ListLawyers(ctx context.Context, req service.ListLawyersRequest) (*service.ListLawyersResult, error) {
	return &service.ListLawyersResult{Lawyers: s.lawyers}, nil
}

func (s *stubDirectory) GetLawyer(ctx context.Context, id uuid.UUID) (*models.Lawyer, error) {
	for _, l := range s.lawyers {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, service.ErrNotFound
}

func (s *stubDirectory) Filters() service.Filters {
	return service.Filters{Expertises: models.Expertises, Locations: models.Locations}
}

func (s *stubDirectory) UploadAvatar(ctx context.Context, req service.UploadAvatarRequest) (*service.UploadAvatarResult, error) {
	return s.upload(req)
}

func (s *stubDirectory) OpenFile(ctx context.Context, id uuid.UUID) (*models.File, io.ReadCloser, error) {
	data, ok := s.files[id]
	if !ok {
		return nil, nil, service.ErrNotFound
	}
	f := &models.File{ID: id, Filename: "avatar.png", MimeType: "image/png", Size: int64(len(data))}
	return f, io.NopCloser(bytes.NewReader(data)), nil
}

type stubFlows struct {
	recommendErr error
	suggestCalls int
}

func (s *stubFlows) RecommendLawyer(ctx context.Context, req models.RecommendationRequest) (*models.RecommendationResult, error) {
	if s.recommendErr != nil {
		return nil, s.recommendErr
	}
	return &models.RecommendationResult{
		LawyerName:         "Jane Doe",
		LawFirm:            "Doe & Associates",
		Expertise:          "Corporate Law",
		ContactInformation: models.ExpertContactPlaceholder,
		Summary:            "Good fit.",
	}, nil
}

func (s *stubFlows) SuggestLaw(ctx context.Context, req models.LawSuggestionRequest) (*models.LawSuggestionResult, error) {
	s.suggestCalls++
	return &models.LawSuggestionResult{
		Suggestions:        []models.LawSuggestion{{Law: "The Indian Contract Act, 1872", Explanation: "Breach."}},
		ConcludingSolution: "Send a notice.",
		Disclaimer:         models.LegalDisclaimer,
	}, nil
}

func (s *stubFlows) Ask(ctx context.Context, req models.AssistantRequest) (*models.AssistantResponse, error) {
	return &models.AssistantResponse{TextResponse: "Hello", AudioResponse: "data:audio/wav;base64,AAAA"}, nil
}

type testEnv struct {
	router    *gin.Engine
	accounts  *stubAccounts
	directory *stubDirectory
	flows     *stubFlows
	user      *models.User
}

const testToken = "valid-token"

func newTestEnv(t *testing.T, limiter *RateLimiter) *testEnv {
	t.Helper()
	user := &models.User{ID: uuid.New(), Email: "sarah@example.com", FirstName: "Sarah", LastName: "Green", UserType: models.UserTypeLawyer}
	env := &testEnv{
		accounts: &stubAccounts{
			users:   map[string]*models.User{testToken: user},
			profile: &service.ProfileResult{User: user, Profile: &models.UserProfile{UserID: user.ID}},
		},
		directory: &stubDirectory{files: map[uuid.UUID][]byte{}},
		flows:     &stubFlows{},
		user:      user,
	}
	router, err := NewRouter(RouterConfig{
		Accounts:    env.accounts,
		Directory:   env.directory,
		Recommender: env.flows,
		Suggester:   env.flows,
		Assistant:   env.flows,
		RateLimiter: limiter,
	})
	require.NoError(t, err)
	env.router = router
	return env
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)
	w, _ := env.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSuggestLawEnforcesMinimumLength(t *testing.T) {
	env := newTestEnv(t, nil)

	w, body := env.do(t, http.MethodPost, "/api/ai/suggest-law", gin.H{"disputeDescription": "too short"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Contains(t, body.Error.Message, "disputeDescription")
	assert.Zero(t, env.flows.suggestCalls)

	w, body = env.do(t, http.MethodPost, "/api/ai/suggest-law", gin.H{"disputeDescription": "My landlord kept my deposit for months."}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var res models.LawSuggestionResult
	require.NoError(t, json.Unmarshal(body.Data, &res))
	assert.Equal(t, models.LegalDisclaimer, res.Disclaimer)
}

func TestRecommendLawyerErrorMapping(t *testing.T) {
	tests := []struct {
		kind   service.ErrorKind
		status int
		code   string
	}{
		{service.KindValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
		{service.KindToolExecution, http.StatusBadGateway, "TOOL_EXECUTION_FAILED"},
		{service.KindGeneration, http.StatusBadGateway, "GENERATION_FAILED"},
		{service.KindTimeout, http.StatusGatewayTimeout, "TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			env := newTestEnv(t, nil)
			env.flows.recommendErr = &service.FlowError{Flow: "recommendLawyer", Kind: tt.kind, Err: errors.New("boom")}

			w, body := env.do(t, http.MethodPost, "/api/ai/recommend-lawyer", gin.H{
				"legalNeeds": "Help with a trademark dispute.",
				"industry":   "Retail",
			}, "")
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestRecommendLawyerOK(t *testing.T) {
	env := newTestEnv(t, nil)
	w, body := env.do(t, http.MethodPost, "/api/ai/recommend-lawyer", gin.H{
		"legalNeeds": "Help with a trademark dispute.",
		"industry":   "Retail",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
	assert.Contains(t, string(body.Data), `"lawyerName":"Jane Doe"`)
}

func TestAssistantRejectsBlankQuery(t *testing.T) {
	env := newTestEnv(t, nil)
	w, body := env.do(t, http.MethodPost, "/api/ai/assistant", gin.H{"query": "   "}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)

	w, body = env.do(t, http.MethodPost, "/api/ai/assistant", gin.H{"query": "hello"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(body.Data), "data:audio/wav;base64,")
}

func TestAIRateLimit(t *testing.T) {
	env := newTestEnv(t, NewRateLimiter(0, 1))
	payload := gin.H{"query": "hello"}

	w, _ := env.do(t, http.MethodPost, "/api/ai/assistant", payload, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, body := env.do(t, http.MethodPost, "/api/ai/assistant", payload, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMITED", body.Error.Code)

	w, _ = env.do(t, http.MethodGet, "/api/lawyers", nil, "")
	assert.Equal(t, http.StatusOK, w.Code, "directory is not rate limited")
}

func TestProfileRequiresAuth(t *testing.T) {
	env := newTestEnv(t, nil)

	w, body := env.do(t, http.MethodGet, "/api/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)

	w, _ = env.do(t, http.MethodGet, "/api/profile", nil, "stale-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body = env.do(t, http.MethodGet, "/api/profile", nil, testToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(body.Data), env.user.ID.String())

	w, body = env.do(t, http.MethodPut, "/api/profile", gin.H{"first_name": "Sally", "last_name": "Green"}, testToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(body.Data), "Sally")
}

func TestSignupAndLoginErrors(t *testing.T) {
	env := newTestEnv(t, nil)
	env.accounts.signup = func(service.SignupRequest) (*service.AuthResult, error) { return nil, service.ErrEmailTaken }
	env.accounts.login = func(service.LoginRequest) (*service.AuthResult, error) { return nil, service.ErrInvalidCredentials }

	w, body := env.do(t, http.MethodPost, "/api/auth/signup", gin.H{"email": "a@b.co"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "EMAIL_TAKEN", body.Error.Code)

	w, body = env.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "a@b.co", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", body.Error.Code)
}

func TestLoginSuccessAndLogout(t *testing.T) {
	env := newTestEnv(t, nil)
	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	env.accounts.login = func(service.LoginRequest) (*service.AuthResult, error) {
		return &service.AuthResult{User: env.user, Session: &models.Session{Token: "new-token", UserID: env.user.ID, ExpiresAt: expires}}, nil
	}

	w, body := env.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "sarah@example.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, "new-token", data.Token)
	assert.NotContains(t, string(body.Data), "password")

	w, _ = env.do(t, http.MethodPost, "/api/auth/logout", nil, testToken)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = env.do(t, http.MethodGet, "/api/profile", nil, testToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLawyerRoutes(t *testing.T) {
	env := newTestEnv(t, nil)
	lawyer := &models.Lawyer{ID: uuid.New(), Name: "Jane Doe", Expertise: []string{"Corporate Law"}}
	env.directory.lawyers = []*models.Lawyer{lawyer}

	w, body := env.do(t, http.MethodGet, "/api/lawyers?expertise=Corporate+Law", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(body.Data), "Jane Doe")

	w, body = env.do(t, http.MethodGet, "/api/lawyers/filters", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(body.Data), "Immigration Law")

	w, _ = env.do(t, http.MethodGet, "/api/lawyers/"+lawyer.ID.String(), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, body = env.do(t, http.MethodGet, "/api/lawyers/"+uuid.NewString(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)

	w, body = env.do(t, http.MethodGet, "/api/lawyers/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", body.Error.Code)

	w, body = env.do(t, http.MethodGet, "/api/lawyers?limit=1000", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_LIMIT", body.Error.Code)
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

func avatarRequest(t *testing.T, path, token, declaredType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="me.png"`)
	h.Set("Content-Type", declaredType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestUploadAvatar(t *testing.T) {
	env := newTestEnv(t, nil)
	const otherToken = "other-lawyer-token"
	env.accounts.users[otherToken] = &models.User{ID: uuid.New(), Email: "john@example.com", UserType: models.UserTypeLawyer}

	lawyerID := uuid.New()
	owner := env.user.ID
	var got service.UploadAvatarRequest
	var gotData []byte
	env.directory.upload = func(req service.UploadAvatarRequest) (*service.UploadAvatarResult, error) {
		got = req
		data, err := io.ReadAll(req.Data)
		if err != nil {
			return nil, err
		}
		gotData = data
		if req.UserID != owner {
			return nil, service.ErrForbidden
		}
		return &service.UploadAvatarResult{
			File:      &models.File{ID: uuid.New(), MimeType: req.ContentType, Size: req.Size},
			AvatarURL: "/api/files/x",
		}, nil
	}
	path := "/api/lawyers/" + lawyerID.String() + "/avatar"

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, avatarRequest(t, path, "", "image/png", pngBytes))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, avatarRequest(t, path, testToken, "image/png", pngBytes))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, lawyerID, got.LawyerID)
	assert.Equal(t, "image/png", got.ContentType)
	assert.EqualValues(t, len(pngBytes), got.Size)
	assert.Equal(t, pngBytes, gotData, "body is rewound after sniffing")

	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, avatarRequest(t, path, otherToken, "image/png", pngBytes))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NotEqual(t, owner, got.UserID)
}

func TestUploadAvatarSniffsContentType(t *testing.T) {
	env := newTestEnv(t, nil)
	var got service.UploadAvatarRequest
	env.directory.upload = func(req service.UploadAvatarRequest) (*service.UploadAvatarResult, error) {
		got = req
		return &service.UploadAvatarResult{File: &models.File{ID: uuid.New()}}, nil
	}
	path := "/api/lawyers/" + uuid.NewString() + "/avatar"

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, avatarRequest(t, path, testToken, "image/png", []byte("<html><body>hi</body></html>")))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEqual(t, "image/png", got.ContentType, "declared part type is ignored")
	assert.Contains(t, got.ContentType, "text/html")
}

func TestGetFile(t *testing.T) {
	env := newTestEnv(t, nil)
	id := uuid.New()
	env.directory.files[id] = []byte("image-data")

	w, _ := env.do(t, http.MethodGet, "/api/files/"+id.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "image-data", w.Body.String())

	w, body := env.do(t, http.MethodGet, "/api/files/"+uuid.NewString(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}
