package auth

import (
	"net/http"
	"time"

	"correspondance-app/internal/api/respond"
	"correspondance-app/internal/app/http/middleware"
	"correspondance-app/internal/domain"
	"correspondance-app/internal/domain/users"
	"correspondance-app/internal/logger"
	"correspondance-app/internal/session"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db           *gorm.DB
	sessions     *session.Manager
	secureCookie bool
	google       *GoogleProvider
}

func NewHandler(db *gorm.DB, sessions *session.Manager, secureCookie bool, google *GoogleProvider) *Handler {
	return &Handler{db: db, sessions: sessions, secureCookie: secureCookie, google: google}
}

// POST /inscription
func (h *Handler) Register(c *gin.Context) {
	var input users.RegisterInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := users.Register(c.Request.Context(), h.db, input); err != nil {
		respond.Error(c, err)
		return
	}
	respond.Redirect(c, "/connexion")
}

// POST /connexion
func (h *Handler) Login(c *gin.Context) {
	if middleware.CurrentUserID(c) != 0 {
		respond.Redirect(c, "/")
		return
	}

	var input struct {
		Login    string `form:"login" json:"login"`
		Password string `form:"motdepasse" json:"motdepasse"`
	}
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := users.Authenticate(c.Request.Context(), h.db, input.Login, input.Password)
	if user == nil {
		c.JSON(http.StatusUnauthorized, respond.NewFormError([]string{"Les identifiants n'ont pas été reconnus"}))
		return
	}

	if !h.startSession(c, user) {
		return
	}
	respond.Redirect(c, "/")
}

// GET|POST /deconnexion
func (h *Handler) Logout(c *gin.Context) {
	if claims := middleware.CurrentClaims(c); claims != nil {
		if err := h.sessions.Revoke(c.Request.Context(), claims); err != nil {
			logger.Get().Error().Err(err).Uint("user_id", claims.UserID).Msg("failed to revoke session")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not close session"})
			return
		}
	}
	c.SetCookie(session.CookieName, "", -1, "/", "", h.secureCookie, true)
	respond.Redirect(c, "/")
}

// POST /mot-de-passe
func (h *Handler) ChangePassword(c *gin.Context) {
	var body struct {
		OldPassword string `form:"ancien_motdepasse" json:"ancien_motdepasse"`
		NewPassword string `form:"nouveau_motdepasse" json:"nouveau_motdepasse"`
	}
	if err := c.ShouldBind(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.CurrentUserID(c)
	if err := users.ChangePassword(c.Request.Context(), h.db, userID, body.OldPassword, body.NewPassword); err != nil {
		respond.Error(c, err)
		return
	}
	respond.Redirect(c, "/")
}

// startSession issues a token and stores it in the session cookie.
func (h *Handler) startSession(c *gin.Context, user *users.User) bool {
	token, _, err := h.sessions.Issue(user.ID, user.Login)
	if err != nil {
		logger.Get().Error().Err(err).Uint("user_id", user.ID).Msg("could not issue session")
		respond.Error(c, &domain.PersistenceError{Cause: err})
		return false
	}
	maxAge := int(h.sessions.TTL() / time.Second)
	c.SetCookie(session.CookieName, token, maxAge, "/", "", h.secureCookie, true)
	return true
}
