package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vena/internal/authz"
	"vena/internal/handlers"
	"vena/internal/locks"
	"vena/internal/models"
	"vena/internal/pdf"
	"vena/internal/pricing"
	"vena/internal/realtime"
	"vena/internal/repositories/memory"
	"vena/internal/services"
)

const testSecret = "routes-test-secret-0123"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	calc := pricing.NewCalculator(nil)
	notifier := services.NewNotificationService(store, nil, nil)
	auth := services.NewAuthService(store, testSecret, time.Hour)
	users := services.NewUserService(store, auth)
	ctx := context.Background()
	require.NoError(t, users.EnsureAdmin(ctx, "owner@vena.test", "owner-pass-123"))
	_, err := users.Create(ctx, services.CreateUserRequest{
		Email: "viewer@vena.test", FullName: "Viewer", Password: "viewer-pass-123", RoleID: authz.RoleViewer,
	})
	require.NoError(t, err)
	require.NoError(t, store.Repos().Packages.Create(ctx, &models.Package{ID: "PKG_LAMARAN", Name: "Lamaran", Price: 5_000_000}))

	clients := services.NewClientService(store)
	catalog := services.NewCatalogService(store, calc)
	conversion := services.NewConversionService(store, calc, locks.NewLocalLocker(), notifier, "DP Proyek")
	projects := services.NewProjectService(store, notifier, nil, "", "Pelunasan")
	docs := pdf.NewDocumentGenerator(t.TempDir(), "", "Vena Pictures")

	h := Handlers{
		Auth:          handlers.NewAuthHandler(auth),
		User:          handlers.NewUserHandler(users),
		Lead:          handlers.NewLeadHandler(services.NewLeadService(store, notifier), conversion, 0),
		Client:        handlers.NewClientHandler(clients),
		Project:       handlers.NewProjectHandler(projects, clients, docs),
		Catalog:       handlers.NewCatalogHandler(catalog),
		Finance:       handlers.NewFinanceHandler(services.NewFinanceService(store, nil, nil), projects, docs),
		Report:        handlers.NewReportHandler(services.NewReportService(store)),
		Notification:  handlers.NewNotificationHandler(notifier),
		Public:        handlers.NewPublicHandler(catalog, conversion, clients, 0),
		Notifications: realtime.NewHub(),
	}
	return SetupRoutes(gin.New(), []byte(testSecret), h)
}

func request(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r http.Handler, email, password string) string {
	t.Helper()
	w := request(r, http.MethodPost, "/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Tokens struct {
			AccessToken string `json:"access_token"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Tokens.AccessToken
}

func TestPublicRoutesNeedNoToken(t *testing.T) {
	r := newTestRouter(t)

	w := request(r, http.MethodGet, "/public/catalog", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(r, http.MethodPost, "/public/leads", "", gin.H{"name": "Sari", "contact_channel": "Website"})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestProtectedRoutes(t *testing.T) {
	r := newTestRouter(t)

	w := request(r, http.MethodGet, "/leads", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	owner := login(t, r, "owner@vena.test", "owner-pass-123")
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/leads", owner, nil).Code)
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/me", owner, nil).Code)
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/reports/dashboard", owner, nil).Code)
	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/users", owner, nil).Code)

	w = request(r, http.MethodPost, "/packages", owner, gin.H{"name": "Prewedding", "price": 7_500_000})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestViewerIsReadOnly(t *testing.T) {
	r := newTestRouter(t)
	viewer := login(t, r, "viewer@vena.test", "viewer-pass-123")

	assert.Equal(t, http.StatusOK, request(r, http.MethodGet, "/projects", viewer, nil).Code)
	assert.Equal(t, http.StatusForbidden, request(r, http.MethodPost, "/leads", viewer, gin.H{"name": "Sari"}).Code)
	assert.Equal(t, http.StatusForbidden, request(r, http.MethodGet, "/users", viewer, nil).Code)
}
