package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/squirrelip/squirrel_server/config"
	"github.com/squirrelip/squirrel_server/internal/api/middleware"
	"github.com/squirrelip/squirrel_server/internal/model"
	"github.com/squirrelip/squirrel_server/internal/pkg/jwt"
	"github.com/squirrelip/squirrel_server/internal/pkg/response"
	"github.com/squirrelip/squirrel_server/internal/repository"
	"github.com/squirrelip/squirrel_server/internal/service"
	"github.com/squirrelip/squirrel_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testJWTSecret = "test-secret-key"

// testEnv wires real services over an in-memory database with fake storage,
// mail and notifications.
type testEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	storage  *testutil.FakeStorage
	notifier *testutil.RecordingNotifier
	mailer   *testutil.FakeMailer
	cfg      *config.Config
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:      testJWTSecret,
			ExpireHours: 24,
			CookieName:  "token",
		},
		Upload: config.UploadConfig{
			MaxFileSize: 1 << 20,
			MaxImages:   3,
		},
		Interaction: config.InteractionConfig{EnquirySticky: true},
		Notify:      config.NotifyConfig{Mode: config.NotifyModeDirect, TimeoutSeconds: 5},
	}

	env := &testEnv{
		db:       db,
		storage:  testutil.NewFakeStorage(),
		notifier: &testutil.RecordingNotifier{},
		mailer:   &testutil.FakeMailer{},
		cfg:      cfg,
	}

	logger := zap.NewNop()
	userRepo := repository.NewUserRepository(db)
	patentRepo := repository.NewPatentRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	patentService := service.NewPatentService(patentRepo, env.storage, env.notifier, cfg.Upload, logger)
	authService := service.NewAuthService(userRepo, env.notifier, &cfg.JWT)
	userService := service.NewUserService(userRepo, patentService)
	interactionService := service.NewInteractionService(interactionRepo, env.notifier, &cfg.Interaction, logger)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, env.notifier)
	uploadService := service.NewUploadService(env.storage, cfg.Upload)
	notificationService := service.NewNotificationService(&cfg.Notify, env.mailer, nil, logger)

	authHandler := NewAuthHandler(authService, &cfg.JWT)
	userHandler := NewUserHandler(userService, &cfg.JWT)
	patentHandler := NewPatentHandler(patentService, cfg.Upload)
	interactionHandler := NewInteractionHandler(interactionService)
	subscriptionHandler := NewSubscriptionHandler(subscriptionService)
	uploadHandler := NewUploadHandler(uploadService, cfg.Upload)
	emailHandler := NewEmailHandler(notificationService)

	authorize := middleware.Auth(testJWTSecret, "token")

	r := gin.New()
	r.GET("/", Health)
	r.POST("/upload", authorize, uploadHandler.Upload)
	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)
	r.GET("/auth/auto-login", authorize, authHandler.AutoLogin)
	r.POST("/auth/logout", authHandler.Logout)
	r.PUT("/profile/update", authorize, userHandler.UpdateProfile)
	r.DELETE("/profile/delete-user", authorize, userHandler.DeleteUser)
	r.POST("/subscribe", subscriptionHandler.Subscribe)
	r.POST("/email", authorize, emailHandler.Send)
	r.POST("/patent/create-patent", authorize, patentHandler.CreatePatent)
	r.POST("/patent/add-patent", authorize, patentHandler.AddPatent)
	r.GET("/patent/my-patents", authorize, patentHandler.MyPatents)
	r.GET("/patent/search-patents", patentHandler.SearchPatents)
	r.GET("/patent/get-all-patents", patentHandler.GetAllPatents)
	r.POST("/patent/get-patents-by-ids", authorize, patentHandler.GetPatentsByIDs)
	r.DELETE("/patent/delete-patent/:patentId", authorize, patentHandler.DeletePatent)
	for _, kind := range model.InteractionKinds {
		r.POST("/interaction/"+string(kind), authorize, interactionHandler.Toggle(kind))
		r.GET("/interaction/"+string(kind), authorize, interactionHandler.Doer(kind))
		r.GET("/interaction/received-"+string(kind), authorize, interactionHandler.Received(kind))
	}
	r.GET("/interaction/received-summary", authorize, interactionHandler.ReceivedSummary)

	env.router = r
	return env
}

func tokenFor(t *testing.T, user *model.User) string {
	t.Helper()
	token, err := jwt.GenerateToken(user.UserID, testJWTSecret, 24)
	require.NoError(t, err)
	return token
}

// performRequest sends body as JSON and authenticates with the session
// cookie when token is not empty.
func performRequest(r http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type formFile struct {
	field    string
	filename string
	data     []byte
}

func performMultipart(t *testing.T, r http.Handler, path string, fields map[string]string, files []formFile, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

// decodeData re-decodes the envelope's data field into v.
func decodeData(t *testing.T, resp response.Response, v interface{}) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, v))
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	return nil
}
