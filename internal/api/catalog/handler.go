package catalog

import (
	"context"
	"fmt"
	"net/http"

	"correspondance-app/internal/api/respond"
	"correspondance-app/internal/app/http/middleware"
	"correspondance-app/internal/domain/catalog"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc      *catalog.Service
	pageSize int
}

func NewHandler(svc *catalog.Service, pageSize int) *Handler {
	return &Handler{svc: svc, pageSize: pageSize}
}

// GET /
func (h *Handler) Home(c *gin.Context) {
	ov, err := h.svc.Overview(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, ov)
}

// GET /lettres?page=
func (h *Handler) ListLetters(c *gin.Context) {
	page, err := h.svc.ListLetters(c.Request.Context(), catalog.ParsePage(c.Query("page")), h.pageSize)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /recherche?keyword=&page=
func (h *Handler) Search(c *gin.Context) {
	keyword := c.Query("keyword")
	page, err := h.svc.Search(c.Request.Context(), keyword, catalog.ParsePage(c.Query("page")), h.pageSize)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, SearchPage{Keyword: keyword, Page: page})
}

// GET /lettres/:id
func (h *Handler) GetLetter(c *gin.Context) {
	id, ok := respond.ParamID(c, "letter")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	letter, err := h.svc.GetLetter(ctx, id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	contribs, err := h.svc.Contributions(ctx, catalog.LetterTarget(id))
	if err != nil {
		respond.Error(c, err)
		return
	}
	all, err := h.svc.ListPublications(ctx)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, LetterPage{
		Letter:        *letter,
		Contributions: toContributionViews(contribs),
		Available:     notLinked(all, letter.Publications),
	})
}

// POST /creation
func (h *Handler) CreateLetter(c *gin.Context) {
	var in catalog.LetterInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	letter, err := h.svc.CreateLetter(c.Request.Context(), middleware.CurrentUserID(c), in)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Redirect(c, letterPath(letter.ID))
}

// POST /lettres/:id/edition
func (h *Handler) UpdateLetter(c *gin.Context) {
	id, ok := respond.ParamID(c, "letter")
	if !ok {
		return
	}
	var in catalog.LetterInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.svc.UpdateLetter(c.Request.Context(), middleware.CurrentUserID(c), id, in); err != nil {
		respond.Error(c, err)
		return
	}
	respond.Redirect(c, letterPath(id))
}

// POST /lettres/:id/suppression
func (h *Handler) DeleteLetter(c *gin.Context) {
	id, ok := respond.ParamID(c, "letter")
	if !ok {
		return
	}
	if err := h.svc.DeleteLetter(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		respond.Error(c, err)
		return
	}
	respond.Redirect(c, "/lettres")
}

// POST /lettres/:id/source
func (h *Handler) AddSource(c *gin.Context) {
	h.changeSource(c, h.svc.AddSource)
}

// POST /lettres/:id/supprimer_source
func (h *Handler) RemoveSource(c *gin.Context) {
	h.changeSource(c, h.svc.RemoveSource)
}

func (h *Handler) changeSource(c *gin.Context, change func(ctx context.Context, actor, letterID, publicationID uint) (bool, error)) {
	id, ok := respond.ParamID(c, "letter")
	if !ok {
		return
	}
	var in struct {
		PublicationID uint `form:"publication_id" json:"publication_id"`
	}
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := change(c.Request.Context(), middleware.CurrentUserID(c), id, in.PublicationID); err != nil {
		respond.Error(c, err)
		return
	}
	respond.Redirect(c, letterPath(id))
}

func letterPath(id uint) string {
	return fmt.Sprintf("/lettres/%d", id)
}
