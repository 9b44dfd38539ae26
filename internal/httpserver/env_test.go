package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/job_board/internal/middleware"
	"github.com/Skotchmaster/job_board/internal/repo"
	"github.com/Skotchmaster/job_board/internal/service"
	"github.com/Skotchmaster/job_board/internal/testdb"
	"github.com/Skotchmaster/job_board/internal/transport"
)

const (
	testAPIKey = "test-api-key"
	testSecret = "test-jwt-secret"
)

type sentMail struct {
	to, link string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, to, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, link: link})
	return nil
}

func (m *fakeMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

type testEnv struct {
	E      *echo.Echo
	DB     *gorm.DB
	Repo   *repo.GormRepo
	Mailer *fakeMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testdb.New(t)
	r := repo.New(db, 2*time.Second)
	secret := []byte(testSecret)
	mail := &fakeMailer{}
	events := service.NopPublisher{}

	e := echo.New()
	Register(e, &Deps{
		Gate:        &middleware.Gate{Users: r, JWTSecret: secret, APIKey: testAPIKey},
		System:      &SystemHTTP{DB: db},
		Auth:        &AuthHTTP{Svc: &service.AuthService{Repo: r, JWTSecret: secret, Events: events}},
		Password:    &PasswordHTTP{Svc: &service.PasswordService{Repo: r, Mailer: mail, FrontendURL: "http://front.test"}},
		Jobs:        &JobHTTP{Svc: &service.JobService{Repo: r, Events: events}, ListLimit: 100},
		Application: &ApplicationHTTP{Svc: &service.ApplicationService{Repo: r, Events: events}},
		Report:      &ReportHTTP{Svc: &service.ReportService{Repo: r}},
		CV:          &CVHTTP{Svc: &service.CVService{Repo: r, Events: events}},
		Users:       &UserHTTP{Svc: &service.UserService{Repo: r}},
	})

	return &testEnv{E: e, DB: db, Repo: r, Mailer: mail}
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) doJSON(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return env.do(req)
}

type filePart struct {
	field, name string
	data        []byte
}

func (env *testEnv) doMultipart(t *testing.T, method, path string, fields map[string]string, files []filePart, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = fw.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return env.do(req)
}

// signup registers and logs in, returning the bearer header and the user id.
func (env *testEnv) signup(t *testing.T, email string, role int) (map[string]string, uint) {
	t.Helper()
	rec := env.doJSON(t, http.MethodPost, "/auth/register", transport.RegisterRequest{
		Email: email, Password: "pw", FullName: "Test " + strings.Split(email, "@")[0], RoleID: role,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.doJSON(t, http.MethodPost, "/auth/login", transport.LoginRequest{Email: email, Password: "pw"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp transport.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return map[string]string{echo.HeaderAuthorization: "Bearer " + resp.Token}, resp.User.ID
}

func withAPIKey(h map[string]string) map[string]string {
	out := map[string]string{middleware.APIKeyHeader: testAPIKey}
	for k, v := range h {
		out[k] = v
	}
	return out
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, rec)["message"].(string)
}

func path(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
