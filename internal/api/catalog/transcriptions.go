package catalog

import (
	"fmt"
	"net/http"

	"correspondance-app/internal/api/respond"
	"correspondance-app/internal/app/http/middleware"
	"correspondance-app/internal/domain/catalog"

	"github.com/gin-gonic/gin"
)

// GET /transcriptions?page=
func (h *Handler) ListTranscriptions(c *gin.Context) {
	page, err := h.svc.ListTranscriptions(c.Request.Context(), catalog.ParsePage(c.Query("page")), h.pageSize)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /transcriptions/:id
func (h *Handler) GetTranscription(c *gin.Context) {
	id, ok := respond.ParamID(c, "transcription")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	tr, err := h.svc.GetTranscription(ctx, id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	contribs, err := h.svc.Contributions(ctx, catalog.TranscriptionTarget(id))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, TranscriptionPage{
		Transcription: *tr,
		Paragraphs:    catalog.Paragraphs(tr.Text),
		Contributions: toContributionViews(contribs),
	})
}

// POST /lettres/:id/ajouter_transcription
func (h *Handler) CreateTranscription(c *gin.Context) {
	letterID, ok := respond.ParamID(c, "letter")
	if !ok {
		return
	}
	var in struct {
		Text string `form:"transcription_lettre" json:"transcription_lettre"`
	}
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.svc.CreateTranscription(c.Request.Context(), middleware.CurrentUserID(c), letterID, in.Text); err != nil {
		respond.Error(c, err)
		return
	}
	respond.Redirect(c, letterPath(letterID))
}

// POST /transcription/:id/modifier_transcription
func (h *Handler) UpdateTranscription(c *gin.Context) {
	id, ok := respond.ParamID(c, "transcription")
	if !ok {
		return
	}
	var in struct {
		Text string `form:"transcription_lettre_modifiee" json:"transcription_lettre_modifiee"`
	}
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.svc.UpdateTranscription(c.Request.Context(), middleware.CurrentUserID(c), id, in.Text); err != nil {
		respond.Error(c, err)
		return
	}
	respond.Redirect(c, transcriptionPath(id))
}

// POST /transcription/:id/supprimer_transcription
func (h *Handler) DeleteTranscription(c *gin.Context) {
	id, ok := respond.ParamID(c, "transcription")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	back := "/transcriptions"
	if tr, err := h.svc.GetTranscription(ctx, id); err == nil {
		back = letterPath(tr.LetterID)
	}
	if err := h.svc.DeleteTranscription(ctx, middleware.CurrentUserID(c), id); err != nil {
		respond.Error(c, err)
		return
	}
	respond.Redirect(c, back)
}

func transcriptionPath(id uint) string {
	return fmt.Sprintf("/transcriptions/%d", id)
}
