package integration_tests

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/ai"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/audit"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/capture"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/handler"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/middleware"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/pdf"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/repository"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/service"
	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/store"
)

// testApp wires the full application against an in-memory store and a
// scripted AI client, mirroring the production composition in main.go.
type testApp struct {
	router *gin.Engine
	ai     *ai.FakeClient
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	st := store.NewMemoryStore()
	fake := &ai.FakeClient{}

	devices, err := capture.NewDeviceManager(1, logger)
	require.NoError(t, err)
	processor := capture.NewProcessor(capture.DefaultLowLightThreshold)

	profiles := repository.NewProfileRepository(st, logger)
	scans := repository.NewScanRepository(st, logger)
	chats := repository.NewChatRepository(st, logger)
	checklistRepo := repository.NewChecklistRepository(st, logger)
	trail := audit.NewTrail(st, logger)

	profileService := service.NewProfileService(profiles, logger)
	onboarding := service.NewOnboardingService(profiles, logger)
	scanService := service.NewScanService(fake, service.NewAnalysisParser(logger), scans, logger)
	chatService := service.NewChatService(chats, profiles, fake, logger)
	checklist := service.NewChecklistService(checklistRepo, profiles, time.UTC, logger)
	recommend := service.NewRecommendService(profiles, scans, logger)
	reports := service.NewReportService(profiles, scans, checklist, pdf.NewGenerator(logger), logger)
	account := service.NewAccountService(profiles, scans, chats, checklistRepo, trail, logger)

	profileHandler := handler.NewProfileHandler(profileService, onboarding, trail, logger)
	scanHandler := handler.NewScanHandler(scanService, devices, processor, trail, logger)
	chatHandler := handler.NewChatHandler(chatService, logger)
	checklistHandler := handler.NewChecklistHandler(checklist, logger)
	insightsHandler := handler.NewInsightsHandler(recommend, reports, logger)
	accountHandler := handler.NewAccountHandler(account, logger)
	healthHandler := handler.NewHealthHandler(st, logger)

	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.UserContextMiddleware())

	router.GET("/health", healthHandler.GetHealth)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth", profileHandler.PostAuth)
		v1.GET("/onboarding/steps", profileHandler.GetOnboardingSteps)

		users := v1.Group("/users/:userId")
		{
			users.GET("/app-state", profileHandler.GetAppState)
			users.GET("/profile", profileHandler.GetProfile)
			users.POST("/profile/theme", profileHandler.PostTheme)
			users.POST("/profile/language", profileHandler.PostLanguage)
			users.POST("/profile/photo", profileHandler.PostPhoto)
			users.POST("/onboarding/steps/:step", profileHandler.PostOnboardingStep)
			users.POST("/onboarding/complete", profileHandler.PostOnboardingComplete)

			users.POST("/scans/flows", scanHandler.PostFlow)
			users.GET("/scans/flows/:flowId", scanHandler.GetFlow)
			users.POST("/scans/flows/:flowId/image", scanHandler.PostImage)
			users.POST("/scans/flows/:flowId/retake", scanHandler.PostRetake)
			users.POST("/scans/flows/:flowId/save", scanHandler.PostSave)
			users.DELETE("/scans/flows/:flowId", scanHandler.DeleteFlow)
			users.GET("/scans", scanHandler.GetScans)

			users.GET("/chat/sessions", chatHandler.GetSessions)
			users.GET("/chat/sessions/new", chatHandler.GetNewSession)
			users.POST("/chat/messages", chatHandler.PostMessage)
			users.DELETE("/chat/sessions/:sessionId", chatHandler.DeleteSession)

			users.GET("/checklist", checklistHandler.GetDay)
			users.POST("/checklist/toggle", checklistHandler.PostToggle)
			users.POST("/checklist/items", checklistHandler.PostItem)
			users.DELETE("/checklist/items/:itemId", checklistHandler.DeleteItem)

			users.GET("/recommendations", insightsHandler.GetRecommendations)
			users.GET("/report", insightsHandler.GetReport)
			users.GET("/report/pdf", insightsHandler.GetReportPDF)

			users.GET("/export", accountHandler.GetExport)
			users.DELETE("", accountHandler.DeleteAccount)
		}
	}

	return &testApp{router: router, ai: fake}
}

// do performs one request and returns the recorder
func (a *testApp) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
}

// signUp authenticates a fresh account and returns its user id
func (a *testApp) signUp(t *testing.T, email string) string {
	t.Helper()

	w := a.do(t, http.MethodPost, "/api/v1/auth", map[string]string{"email": email})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	var profile struct {
		ID string `json:"id"`
	}
	decodeJSON(t, w, &profile)
	require.NotEmpty(t, profile.ID)
	return profile.ID
}

// completeOnboarding pushes a minimal answer set through the wizard
func (a *testApp) completeOnboarding(t *testing.T, userID string) {
	t.Helper()

	answers := map[string]interface{}{
		"name":      "Sari",
		"age":       24,
		"skin_type": "Oily",
	}
	w := a.do(t, http.MethodPost, "/api/v1/users/"+userID+"/onboarding/complete", answers)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
}

// testImageDataURI builds a small flat JPEG as a base64 data URI, the
// shape the mobile client uploads captured frames in.
func testImageDataURI(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	skin := color.RGBA{R: 224, G: 188, B: 160, A: 255}
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, skin)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}))
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}
