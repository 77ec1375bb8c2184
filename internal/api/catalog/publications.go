package catalog

import (
	"fmt"
	"net/http"

	"correspondance-app/internal/api/respond"
	"correspondance-app/internal/app/http/middleware"
	"correspondance-app/internal/domain/catalog"

	"github.com/gin-gonic/gin"
)

// GET /publications
func (h *Handler) ListPublications(c *gin.Context) {
	pubs, err := h.svc.ListPublications(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"publications": pubs})
}

// GET /publications/:id
func (h *Handler) GetPublication(c *gin.Context) {
	id, ok := respond.ParamID(c, "publication")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	pub, err := h.svc.GetPublication(ctx, id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	contribs, err := h.svc.Contributions(ctx, catalog.PublicationTarget(id))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, PublicationPage{Publication: *pub, Contributions: toContributionViews(contribs)})
}

// POST /ajouter_publication
func (h *Handler) CreatePublication(c *gin.Context) {
	var in catalog.PublicationInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pub, err := h.svc.CreatePublication(c.Request.Context(), middleware.CurrentUserID(c), in)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Redirect(c, publicationPath(pub.ID))
}

// POST /publications/:id/edition
func (h *Handler) UpdatePublication(c *gin.Context) {
	id, ok := respond.ParamID(c, "publication")
	if !ok {
		return
	}
	var in catalog.PublicationInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.svc.UpdatePublication(c.Request.Context(), middleware.CurrentUserID(c), id, in); err != nil {
		respond.Error(c, err)
		return
	}
	respond.Redirect(c, publicationPath(id))
}

// POST /publications/:id/suppression
func (h *Handler) DeletePublication(c *gin.Context) {
	id, ok := respond.ParamID(c, "publication")
	if !ok {
		return
	}
	if err := h.svc.DeletePublication(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		respond.Error(c, err)
		return
	}
	respond.Redirect(c, "/publications")
}

func publicationPath(id uint) string {
	return fmt.Sprintf("/publications/%d", id)
}
