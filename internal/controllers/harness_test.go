package controllers

import (
	"bytes"
	"falci/internal/providers"
	"falci/internal/services"
	"falci/internal/storage"
	"falci/internal/structures"
	"falci/internal/testutil"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type harness struct {
	conf      *structures.Config
	logger    *testutil.MockLogger
	store     *testutil.FlakyStore
	adapter   storage.AdapterInterface
	inference *testutil.MockInference
	history   services.HistoryServiceInterface
	registry  services.SessionRegistryInterface
	tokens    providers.TokenProviderInterface

	auth    *AuthController
	reading *ReadingController
	hist    *HistoryController
	chat    *ChatController
	profile *ProfileController
	health  *HealthController
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	conf := &structures.Config{
		Auth:    structures.AuthConfig{SecretKey: "controller-test-secret-key", TokenTTL: time.Hour, BcryptCost: bcrypt.MinCost},
		Reading: structures.ReadingConfig{Timezone: "Europe/Istanbul", MaxImageBytes: 64 << 10, MaxImageDimension: 512},
	}
	h := &harness{
		conf:      conf,
		logger:    &testutil.MockLogger{},
		store:     testutil.NewFlakyStore(),
		inference: &testutil.MockInference{Reply: "Fincanında bir yol görüyorum."},
	}
	h.adapter = testutil.NewAdapter(h.store)
	metrics := &testutil.MockMetrics{}
	h.history = services.NewHistoryService(conf, h.adapter, h.logger)
	h.registry = services.NewSessionRegistry(conf, h.inference, h.history, h.logger, metrics)
	h.tokens = providers.NewTokenProvider(conf)
	credentials := services.NewCredentialService(conf, h.adapter, h.logger)

	h.auth = NewAuthController(h.logger, credentials, h.registry, h.tokens)
	h.reading = NewReadingController(h.logger, conf)
	h.hist = NewHistoryController(h.logger, h.history)
	h.chat = NewChatController(h.logger)
	h.profile = NewProfileController(h.logger, h.history)
	h.health = NewHealthController(h.registry, h.adapter, h.logger)
	return h
}

// register signs a user up through the controller and returns the bearer token.
func (h *harness) register(t *testing.T, name, email, password string) string {
	t.Helper()
	body := `{"name":"` + name + `","email":"` + email + `","password":"` + password + `"}`
	rr := httptest.NewRecorder()
	h.auth.Register(rr, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp authResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Token
}

// serve runs handler behind RequireSession.
func (h *harness) serve(handler http.HandlerFunc, req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.auth.RequireSession(handler).ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[errorResponse](t, rr).Error
}

func cupPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 6, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			img.Set(x, y, color.RGBA{R: 80, G: 40, B: 10, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
