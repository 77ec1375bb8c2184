package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"correspondance-app/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionRouter(m *session.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(LoadSession(m))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": CurrentUserID(c)})
	})
	r.POST("/protected", RequireUser(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRequireUser_Anonymous(t *testing.T) {
	r := sessionRouter(session.NewManager("secret", time.Hour, session.NewMemoryRevoker()))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Accès refusé"}`, w.Body.String())
}

func TestRequireUser_CookieAndBearer(t *testing.T) {
	m := session.NewManager("secret", time.Hour, session.NewMemoryRevoker())
	r := sessionRouter(m)
	raw, _, err := m.Issue(3, "ricci")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: raw})
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"user_id":3}`, w.Body.String())
}

func TestRequireUser_RevokedSession(t *testing.T) {
	m := session.NewManager("secret", time.Hour, session.NewMemoryRevoker())
	r := sessionRouter(m)
	raw, claims, err := m.Issue(3, "ricci")
	require.NoError(t, err)
	require.NoError(t, m.Revoke(context.Background(), claims))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: raw})
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoadSession_GarbageTokenIsAnonymous(t *testing.T) {
	r := sessionRouter(session.NewManager("secret", time.Hour, session.NewMemoryRevoker()))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer nope")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0}`, w.Body.String())
}

func echoRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SanitizeAndCleanInputMiddleware())
	r.POST("/echo", func(c *gin.Context) {
		var body struct {
			Author   string `form:"lettre_redacteur" json:"auteur"`
			Place    string `form:"lettre_lieu" json:"lieu"`
			Password string `form:"motdepasse" json:"motdepasse"`
		}
		if err := c.ShouldBind(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"auteur": body.Author, "lieu": body.Place, "motdepasse": body.Password})
	})
	return r
}

func TestSanitize_Form(t *testing.T) {
	r := echoRouter()
	form := url.Values{
		"lettre_redacteur": {"<b>d'Entrecolles</b>"},
		"lettre_lieu":      {"Jao-tcheou & Pékin<script>alert(1)</script>"},
		"motdepasse":       {"<secret>pw1234"},
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/echo", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"auteur":"d'Entrecolles","lieu":"Jao-tcheou & Pékin","motdepasse":"<secret>pw1234"}`, w.Body.String())

	form = url.Values{"lettre_redacteur": {"&lt;script&gt;alert(1)&lt;/script&gt;Ricci"}}
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPost, "/echo", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"auteur":"Ricci","lieu":"","motdepasse":""}`, w.Body.String())
}

func TestClean(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"<b>Ricci</b>", "Ricci"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;", ""},
		{"d'Entrecolles", "d'Entrecolles"},
		{"Jao-tcheou &amp; Pékin", "Jao-tcheou & Pékin"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clean(tt.in), tt.in)
	}
}

func TestSanitize_JSON(t *testing.T) {
	r := echoRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"auteur":"<i>Ricci</i>","lieu":"Pékin","motdepasse":"<pw>&amp;1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"auteur":"Ricci","lieu":"Pékin","motdepasse":"<pw>&amp;1"}`, w.Body.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"auteur":`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(), Metrics())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	assert.Len(t, w.Header().Get("X-Request-ID"), 8)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}
