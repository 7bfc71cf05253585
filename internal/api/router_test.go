package api_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mkulima/soko/internal/api"
	"mkulima/soko/internal/config"
	"mkulima/soko/internal/index"
	"mkulima/soko/internal/models"
	"mkulima/soko/internal/remote"
	"mkulima/soko/internal/render"
	"mkulima/soko/internal/session"
	"mkulima/soko/internal/tradeflow"
)

func testConfig() *config.Config {
	return &config.Config{
		SessionSecret:           "test-secret",
		SessionTTL:              time.Hour,
		CookieName:              "soko_session",
		AppName:                 "Soko",
		DefaultImagePath:        "/user/images/seed_pack.jpg",
		RateLimitSoftBucketSize: 100,
		RateLimitSoftRefillRate: 100,
		RateLimitHardBucketSize: 1000,
		RateLimitHardRefillRate: 1000,
	}
}

type testApp struct {
	router   *gin.Engine
	idx      *index.Index
	sessions *session.Manager
	cookies  []*http.Cookie
}

func newTestApp(t *testing.T, backend http.Handler) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backendSrv := httptest.NewServer(backend)
	t.Cleanup(backendSrv.Close)

	cfg := testConfig()
	client := remote.NewClientForURL(backendSrv.URL, 2*time.Second)
	idx := index.New()
	sessions := session.NewManager(session.NewMemoryStore())
	flow := tradeflow.New(client, idx, sessions)
	engine, err := render.New(cfg.AppName, cfg.DefaultImagePath)
	require.NoError(t, err)

	return &testApp{
		router:   api.SetupRouter(cfg, client, idx, sessions, flow, engine, nil),
		idx:      idx,
		sessions: sessions,
	}
}

// do performs a request carrying the cookies collected so far, a crude
// cookie jar for a single simulated browser.
func (a *testApp) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range a.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	for _, fresh := range w.Result().Cookies() {
		replaced := false
		for i, old := range a.cookies {
			if old.Name == fresh.Name {
				a.cookies[i] = fresh
				replaced = true
				break
			}
		}
		if !replaced {
			a.cookies = append(a.cookies, fresh)
		}
	}
	return w
}

// marketBackend stubs the marketplace API with two seed listings. A created
// listing shows up in subsequent product fetches, like the real backend.
func marketBackend() http.Handler {
	created := false
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		extra := ""
		if created {
			extra = `,{"id": 42, "name": "Beans", "category": "Grain", "type": "cash", "price": 120, "location": "Nakuru", "seller": "Wanjiku Kamau"}`
		}
		w.Write([]byte(`[
			{"id": 1, "name": "Fresh Maize", "category": "Grain", "type": "cash", "price": 500, "location": "Nakuru", "seller": "Otieno"},
			{"id": 2, "name": "Dairy Goat", "category": "Livestock", "type": "barter", "barter_desc": "Two bags of maize", "location": "Eldoret", "seller": "Chebet"}` + extra + `
		]`))
	})
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user": {"id": 7, "fullname": "Wanjiku Kamau", "phone": "0712345678", "role": "farmer"}}`))
	})
	mux.HandleFunc("POST /api/products", func(w http.ResponseWriter, r *http.Request) {
		created = true
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 42}`))
	})
	return mux
}

func TestGetMarket_RendersGridAndFilters(t *testing.T) {
	app := newTestApp(t, marketBackend())
	app.idx.ReplaceAll([]models.Listing{
		{ID: 1, Name: "Fresh Maize", Category: "Grain", Type: "cash", Price: 500, Location: "Nakuru", Seller: "Otieno"},
		{ID: 2, Name: "Dairy Goat", Category: "Livestock", Type: "barter", BarterDesc: "Two bags of maize", Location: "Eldoret", Seller: "Chebet"},
	})

	w := app.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Fresh Maize")
	assert.Contains(t, body, "KSh 500")
	assert.Contains(t, body, "Dairy Goat")
	assert.Contains(t, body, "Two bags of maize")

	// Filtered view drops the non-matching listing.
	w = app.do(http.MethodGet, "/?type=cash", nil)
	body = w.Body.String()
	assert.Contains(t, body, "Fresh Maize")
	assert.NotContains(t, body, "Dairy Goat")
}

func TestSellerPagesRequireLogin(t *testing.T) {
	app := newTestApp(t, marketBackend())

	for _, path := range []string{"/selling", "/sell"} {
		w := app.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	}
}

func TestLoginThenSellFlow(t *testing.T) {
	app := newTestApp(t, marketBackend())

	w := app.do(http.MethodPost, "/login", url.Values{
		"phone": {"0712345678"}, "password": {"secret"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/?toast=")

	// The session cookie now carries the user; the market greets them.
	w = app.do(http.MethodGet, "/", nil)
	assert.Contains(t, w.Body.String(), "Wanjiku Kamau")

	w = app.do(http.MethodPost, "/sell", url.Values{
		"name": {"Beans"}, "category": {"Grain"}, "location": {"Nakuru"},
		"transType": {"cash"}, "price": {"120"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/selling?toast=")

	// Ownership disables trading on the new listing.
	w = app.do(http.MethodGet, "/trade/42", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), url.QueryEscape("You cannot trade on your own listing."))
}

func TestPostSell_ValidationErrorKeepsValues(t *testing.T) {
	app := newTestApp(t, marketBackend())

	w := app.do(http.MethodPost, "/login", url.Values{"phone": {"0712345678"}, "password": {"secret"}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = app.do(http.MethodPost, "/sell", url.Values{
		"name": {"Dairy Goat"}, "category": {"Livestock"}, "location": {"Eldoret"},
		"transType": {"barter"}, "barterDesc": {"  "},
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Please describe what you want in exchange.")
	assert.Contains(t, body, "Dairy Goat")
	assert.Contains(t, body, "Eldoret")
}

func TestPostOffer_AnonymousRedirectsToLogin(t *testing.T) {
	app := newTestApp(t, marketBackend())

	w := app.do(http.MethodPost, "/offers", url.Values{"productId": {"1"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/login?error=")
}

func TestAdminDashboard_BouncesFarmers(t *testing.T) {
	app := newTestApp(t, marketBackend())

	w := app.do(http.MethodPost, "/login", url.Values{"phone": {"0712345678"}, "password": {"secret"}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = app.do(http.MethodGet, "/admin", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestTradePage_VanishedListingRedirects(t *testing.T) {
	app := newTestApp(t, marketBackend())

	w := app.do(http.MethodGet, "/trade/999", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), url.QueryEscape("This listing is no longer available."))
}

func TestAuthForms_RejectedLocallyWithoutBackendCall(t *testing.T) {
	backendCalls := 0
	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendCalls++
		w.WriteHeader(http.StatusInternalServerError)
	}))

	w := app.do(http.MethodPost, "/login", url.Values{"phone": {"0712"}, "password": {"secret"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter a valid Kenyan phone number.")
	assert.Contains(t, w.Body.String(), "0712")

	w = app.do(http.MethodPost, "/register", url.Values{
		"fullname": {"Wanjiku Kamau"}, "phone": {"0712345678"},
		"password": {"secret"}, "confirmPassword": {"different"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Passwords do not match!")

	w = app.do(http.MethodPost, "/register", url.Values{
		"fullname": {"Wanjiku Kamau"}, "phone": {"0712345678"},
		"password": {"pw"}, "confirmPassword": {"pw"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Password must be at least 6 characters.")

	assert.Equal(t, 0, backendCalls)
}
