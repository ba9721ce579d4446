package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/postboard/internal/logging"
	"github.com/dmitrijs2005/postboard/internal/server/auth"
	"github.com/dmitrijs2005/postboard/internal/server/metrics"
	"github.com/dmitrijs2005/postboard/internal/server/repositories/repotest"
	"github.com/dmitrijs2005/postboard/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	router  *gin.Engine
	gate    *auth.Gate
	store   *repotest.Store
	mock    sqlmock.Sqlmock
	tokens  *auth.TokenService
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rm := repotest.NewManager()
	tokens, err := auth.NewTokenService([]byte("test-secret"), time.Hour)
	require.NoError(t, err)
	deny := auth.NewMemoryDenylist()
	m := metrics.New()
	l := logging.Discard()

	us, err := services.NewUserService(db, rm, auth.NewBcryptHasher(bcrypt.MinCost), tokens, deny, time.Second, l, m)
	require.NoError(t, err)
	ps := services.NewPostService(db, rm, l)
	cs := services.NewCommentService(db, rm, l)
	gate := auth.NewGate(tokens, deny, rm.Users(db), time.Second, l, m)

	h := NewHandler(us, ps, cs, gate, l, m)
	return &testEnv{router: h.Router(), gate: gate, store: rm.Store, mock: mock, tokens: tokens, metrics: m}
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (e *testEnv) register(t *testing.T, name, email, password string) int64 {
	t.Helper()
	w, env := e.do(t, http.MethodPost, "/user/add_user", map[string]string{"name": name, "email": email, "password": password}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var u struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &u))
	return u.ID
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	w, env := e.do(t, http.MethodPost, "/user/user_login", map[string]string{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}
