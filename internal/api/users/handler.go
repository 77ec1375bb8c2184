package users

import (
	"net/http"

	"correspondance-app/internal/api/respond"
	"correspondance-app/internal/app/http/middleware"
	"correspondance-app/internal/domain/catalog"
	"correspondance-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const recentContributions = 10

type Handler struct {
	db  *gorm.DB
	svc *catalog.Service
}

func NewHandler(db *gorm.DB, svc *catalog.Service) *Handler {
	return &Handler{db: db, svc: svc}
}

// GET /me
func (h *Handler) GetCurrentUser(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := users.FindByID(ctx, h.db, middleware.CurrentUserID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	summary, err := h.svc.UserContributions(ctx, user.ID, recentContributions)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, MeResponse{
		User:          BuildUserDTO(*user),
		Contributions: BuildContributionsDTO(summary),
	})
}
