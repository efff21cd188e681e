package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilab/tilab/internal/app/controllers"
	"github.com/tilab/tilab/internal/app/repositories"
	"github.com/tilab/tilab/internal/app/services"
	"github.com/tilab/tilab/internal/config"
	"github.com/tilab/tilab/internal/middleware"
	"github.com/tilab/tilab/internal/pkg/auth"
	"github.com/tilab/tilab/internal/pkg/websocket"
	"github.com/tilab/tilab/internal/store"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"error"`
}

type testAPI struct {
	router *gin.Engine
	jwt    *auth.JWTService
}

func newTestAPI(t *testing.T, authEnabled bool) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemory()
	t.Cleanup(func() { _ = st.Close() })

	nop := zerolog.Nop()
	svc := services.NewServices(services.Deps{Repos: repositories.NewRepositories(st), Logger: &nop})

	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "tilab"})
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	authService := services.NewAuthService([]config.StaffMember{
		{Email: "admin@tilab.local", Name: "Admin", PasswordHash: hash, Role: "ADMIN"},
		{Email: "staff@tilab.local", Name: "Staff", PasswordHash: hash, Role: "STAFF"},
	}, jwtService, nop)

	ctrl := &controllers.Controllers{
		HealthController:    controllers.NewHealthController(st, config.DriverMemory),
		AuthController:      controllers.NewAuthController(authService, nop),
		ComponentController: controllers.NewComponentController(svc.ComponentService),
		CourseController:    controllers.NewCourseController(svc.CourseService, svc.SectionService),
		KitController:       controllers.NewKitController(svc.KitService),
		LoanController:      controllers.NewLoanController(svc.LoanService),
	}

	router := gin.New()
	SetupCORS(router, []string{"http://localhost:5173"})
	SetupRouter(router, ctrl, websocket.NewHandler(websocket.NewHub(nop), nop), middleware.NewAuthMiddleware(jwtService, authEnabled))
	return &testAPI{router: router, jwt: jwtService}
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type idOnly struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	Status   string `json:"status"`
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t, false)

	w, env := api.do(t, http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"status":"ok","storage":"memory"}`, string(env.Data))

	w, _ = api.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestComponentEndpoints(t *testing.T) {
	api := newTestAPI(t, false)

	w, env := api.do(t, http.MethodPost, "/api/v1/components", map[string]interface{}{"name": "", "quantity": "abc"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VAL_001", env.Error.Code)
	assert.Equal(t, "name", env.Error.Field)
	assert.Equal(t, "Component name is required", env.Error.Message)

	w, env = api.do(t, http.MethodPost, "/api/v1/components", map[string]interface{}{"name": "LED Rojo 5mm", "quantity": 75}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[idOnly](t, env.Data)
	assert.Equal(t, 75, created.Quantity)

	w, env = api.do(t, http.MethodPut, "/api/v1/components/"+created.ID, map[string]interface{}{"name": "LED Rojo 5mm", "quantity": "80"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 80, decode[idOnly](t, env.Data).Quantity)

	w, env = api.do(t, http.MethodGet, "/api/v1/components?search=led", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[struct {
		Items      []idOnly `json:"items"`
		Pagination struct {
			TotalItems int64 `json:"totalItems"`
		} `json:"pagination"`
	}](t, env.Data)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Pagination.TotalItems)

	w, _ = api.do(t, http.MethodDelete, "/api/v1/components/"+created.ID, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = api.do(t, http.MethodGet, "/api/v1/components/"+created.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "RES_001", env.Error.Code)
	assert.Equal(t, "Component not found", env.Error.Message)
}

func TestInvalidJSONBody(t *testing.T) {
	api := newTestAPI(t, false)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/courses", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCourseAndSectionEndpoints(t *testing.T) {
	api := newTestAPI(t, false)

	w, env := api.do(t, http.MethodPost, "/api/v1/courses", map[string]string{"name": "Robótica Básica"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	course := decode[idOnly](t, env.Data)

	w, env = api.do(t, http.MethodPost, "/api/v1/courses/"+course.ID+"/sections", map[string]string{"name": "Sección A", "professor": "Dr. García"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	section := decode[idOnly](t, env.Data)

	w, env = api.do(t, http.MethodGet, "/api/v1/courses/"+course.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[struct {
		Sections []idOnly `json:"sections"`
	}](t, env.Data)
	require.Len(t, got.Sections, 1)
	assert.Equal(t, section.ID, got.Sections[0].ID)

	w, _ = api.do(t, http.MethodDelete, "/api/v1/courses/"+course.ID+"/sections/"+section.ID, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = api.do(t, http.MethodGet, "/api/v1/courses/"+course.ID+"/sections", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestLoanEndpoints(t *testing.T) {
	api := newTestAPI(t, false)

	_, env := api.do(t, http.MethodPost, "/api/v1/components", map[string]interface{}{"name": "Arduino Uno R3", "quantity": 12}, "")
	component := decode[idOnly](t, env.Data)
	_, env = api.do(t, http.MethodPost, "/api/v1/kits", map[string]interface{}{
		"code":  "KIT-001",
		"name":  "Kit Básico",
		"items": []map[string]interface{}{{"componentId": component.ID, "quantity": 2}},
	}, "")
	kit := decode[idOnly](t, env.Data)

	w, env := api.do(t, http.MethodGet, "/api/v1/kits?code=kit-001", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, kit.ID, decode[idOnly](t, env.Data).ID)

	loanBody := map[string]interface{}{
		"borrowerName":       "María López",
		"borrowerEmail":      "maria@example.edu",
		"expectedReturnDate": time.Now().Add(72 * time.Hour).Format(time.RFC3339),
		"items": []map[string]interface{}{
			{"componentId": component.ID, "quantity": 20},
		},
	}
	w, env = api.do(t, http.MethodPost, "/api/v1/loans", loanBody, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Insufficient stock", env.Error.Message)

	loanBody["items"] = []map[string]interface{}{
		{"componentId": component.ID, "quantity": 2},
		{"kitId": kit.ID},
	}
	w, env = api.do(t, http.MethodPost, "/api/v1/loans", loanBody, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	loan := decode[idOnly](t, env.Data)
	assert.Equal(t, "active", loan.Status)

	_, env = api.do(t, http.MethodGet, "/api/v1/components/"+component.ID, nil, "")
	assert.Equal(t, 10, decode[idOnly](t, env.Data).Quantity)

	w, env = api.do(t, http.MethodGet, "/api/v1/loans/active", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]idOnly](t, env.Data), 1)

	w, env = api.do(t, http.MethodPut, "/api/v1/loans/"+loan.ID+"/return", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "returned", decode[idOnly](t, env.Data).Status)

	w, env = api.do(t, http.MethodPut, "/api/v1/loans/"+loan.ID+"/return", nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "RES_004", env.Error.Code)

	w, env = api.do(t, http.MethodGet, "/api/v1/loans?status=lost", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "status", env.Error.Field)
}

func TestAuthEnabled(t *testing.T) {
	api := newTestAPI(t, true)
	body := map[string]interface{}{"name": "LED Rojo 5mm", "quantity": 75}

	w, _ := api.do(t, http.MethodGet, "/api/v1/components", nil, "")
	assert.Equal(t, http.StatusOK, w.Code, "reads stay public")

	w, env := api.do(t, http.MethodPost, "/api/v1/components", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_008", env.Error.Code)

	w, _ = api.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "staff@tilab.local", "password": "bad"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = api.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "staff@tilab.local", "password": "s3cret"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[struct {
		Token struct {
			AccessToken string `json:"accessToken"`
		} `json:"token"`
	}](t, env.Data)
	staffToken := login.Token.AccessToken

	w, env = api.do(t, http.MethodPost, "/api/v1/components", body, staffToken)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[idOnly](t, env.Data)

	w, env = api.do(t, http.MethodDelete, "/api/v1/components/"+created.ID, nil, staffToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "AUTH_009", env.Error.Code)

	adminToken, _, err := api.jwt.GenerateAccessToken("admin@tilab.local", "Admin", "ADMIN")
	require.NoError(t, err)
	w, _ = api.do(t, http.MethodDelete, "/api/v1/components/"+created.ID, nil, adminToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = api.do(t, http.MethodGet, "/api/v1/events/ws", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code, "event stream needs a token")
	assert.Equal(t, "AUTH_008", env.Error.Code)

	// a plain GET is not a websocket handshake, so the upgrader rejects it once auth passes
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/ws?token="+staffToken, nil)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.NotEqual(t, http.StatusUnauthorized, rec.Code)

	w, env = api.do(t, http.MethodPost, "/api/v1/components", body, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_005", env.Error.Code)
}

func TestCORSPreflight(t *testing.T) {
	api := newTestAPI(t, false)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/components", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
