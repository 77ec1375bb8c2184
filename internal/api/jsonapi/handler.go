// Package jsonapi serves the read-only JSON view of the catalog.
package jsonapi

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"correspondance-app/internal/domain"
	"correspondance-app/internal/domain/catalog"
	"correspondance-app/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc      *catalog.Service
	apiRoute string
	pageSize int
}

func NewHandler(svc *catalog.Service, apiRoute string, pageSize int) *Handler {
	return &Handler{svc: svc, apiRoute: apiRoute, pageSize: pageSize}
}

// Register mounts every endpoint under the API route.
func (h *Handler) Register(r gin.IRouter) {
	g := r.Group(h.apiRoute)
	g.GET("/lettres", h.Letters)
	g.GET("/lettres/:id", h.Letter)
	g.GET("/publications", h.Publications)
	g.GET("/publications/:id", h.Publication)
	g.GET("/transcriptions", h.Transcriptions)
	g.GET("/transcriptions/:id", h.Transcription)
	g.GET("/recherche", h.Search)
}

func queryFailed(c *gin.Context, err error) {
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Get().Error().Err(err).Str("path", c.Request.URL.Path).Msg("api query failed")
	}
	c.JSON(http.StatusNotFound, gin.H{"erreur": "Unable to perform the query"})
}

func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	switch p := strings.ToLower(c.GetHeader("X-Forwarded-Proto")); p {
	case "http", "https":
		scheme = p
	}
	return scheme + "://" + c.Request.Host
}

func (h *Handler) builder(c *gin.Context, idx *catalog.ContributionIndex) builder {
	return builder{base: baseURL(c), apiRoute: h.apiRoute, idx: idx}
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// collectionLinks builds self/next/prev for a paginated endpoint. extra
// carries query parameters to keep, such as the search keyword.
func (h *Handler) collectionLinks(c *gin.Context, path string, p catalog.Pagination, extra url.Values) CollectionLinksDTO {
	base := baseURL(c)
	pageURL := func(n int) string {
		q := url.Values{}
		for k, v := range extra {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(n))
		return base + h.apiRoute + path + "?" + q.Encode()
	}

	links := CollectionLinksDTO{Self: base + c.Request.URL.RequestURI()}
	if p.HasNext {
		links.Next = pageURL(p.Page + 1)
	}
	if p.HasPrev {
		links.Prev = pageURL(p.Page - 1)
	}
	return links
}

func meta(p catalog.Pagination) MetaDTO {
	return MetaDTO{Page: p.Page, Pages: p.Pages, Total: p.Total}
}

// GET /api/lettres?page=
func (h *Handler) Letters(c *gin.Context) {
	h.letterCollection(c, "/lettres", "")
}

// GET /api/recherche?keyword=&page=
func (h *Handler) Search(c *gin.Context) {
	h.letterCollection(c, "/recherche", c.Query("keyword"))
}

func (h *Handler) letterCollection(c *gin.Context, path, keyword string) {
	ctx := c.Request.Context()
	page, err := h.svc.Search(ctx, keyword, catalog.ParsePage(c.Query("page")), h.pageSize)
	if err != nil {
		queryFailed(c, err)
		return
	}

	lids, pids, tids := letterIDs(page.Items)
	idx, err := h.svc.IndexContributions(ctx, lids, pids, tids)
	if err != nil {
		queryFailed(c, err)
		return
	}

	b := h.builder(c, idx)
	data := make([]ResourceDTO, 0, len(page.Items))
	for _, l := range page.Items {
		data = append(data, b.letter(l))
	}

	var extra url.Values
	if keyword != "" {
		extra = url.Values{"keyword": {keyword}}
	}
	c.JSON(http.StatusOK, CollectionDTO{
		Links: h.collectionLinks(c, path, page.Pagination, extra),
		Data:  data,
		Meta:  meta(page.Pagination),
	})
}

// GET /api/lettres/:id
func (h *Handler) Letter(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		queryFailed(c, nil)
		return
	}
	ctx := c.Request.Context()

	letter, err := h.svc.GetLetter(ctx, id)
	if err != nil {
		queryFailed(c, err)
		return
	}
	lids, pids, tids := letterIDs([]catalog.Letter{*letter})
	idx, err := h.svc.IndexContributions(ctx, lids, pids, tids)
	if err != nil {
		queryFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, h.builder(c, idx).letter(*letter))
}

// GET /api/publications
func (h *Handler) Publications(c *gin.Context) {
	ctx := c.Request.Context()
	pubs, err := h.svc.ListPublications(ctx)
	if err != nil {
		queryFailed(c, err)
		return
	}

	pids := make([]uint, 0, len(pubs))
	for _, p := range pubs {
		pids = append(pids, p.ID)
	}
	idx, err := h.svc.IndexContributions(ctx, nil, pids, nil)
	if err != nil {
		queryFailed(c, err)
		return
	}

	b := h.builder(c, idx)
	data := make([]ResourceDTO, 0, len(pubs))
	for _, p := range pubs {
		data = append(data, b.publication(p))
	}
	all := catalog.NewPage(int64(len(pubs)), 1, max(len(pubs), 1))
	c.JSON(http.StatusOK, CollectionDTO{
		Links: CollectionLinksDTO{Self: baseURL(c) + c.Request.URL.RequestURI()},
		Data:  data,
		Meta:  meta(all),
	})
}

// GET /api/publications/:id
func (h *Handler) Publication(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		queryFailed(c, nil)
		return
	}
	ctx := c.Request.Context()

	pub, err := h.svc.GetPublication(ctx, id)
	if err != nil {
		queryFailed(c, err)
		return
	}
	idx, err := h.svc.IndexContributions(ctx, nil, []uint{pub.ID}, nil)
	if err != nil {
		queryFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, h.builder(c, idx).publication(*pub))
}

// GET /api/transcriptions?page=
func (h *Handler) Transcriptions(c *gin.Context) {
	ctx := c.Request.Context()
	page, err := h.svc.ListTranscriptions(ctx, catalog.ParsePage(c.Query("page")), h.pageSize)
	if err != nil {
		queryFailed(c, err)
		return
	}

	tids := make([]uint, 0, len(page.Items))
	for _, t := range page.Items {
		tids = append(tids, t.ID)
	}
	idx, err := h.svc.IndexContributions(ctx, nil, nil, tids)
	if err != nil {
		queryFailed(c, err)
		return
	}

	b := h.builder(c, idx)
	data := make([]ResourceDTO, 0, len(page.Items))
	for _, t := range page.Items {
		data = append(data, b.transcription(t))
	}
	c.JSON(http.StatusOK, CollectionDTO{
		Links: h.collectionLinks(c, "/transcriptions", page.Pagination, nil),
		Data:  data,
		Meta:  meta(page.Pagination),
	})
}

// GET /api/transcriptions/:id
func (h *Handler) Transcription(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		queryFailed(c, nil)
		return
	}
	ctx := c.Request.Context()

	tr, err := h.svc.GetTranscription(ctx, id)
	if err != nil {
		queryFailed(c, err)
		return
	}
	idx, err := h.svc.IndexContributions(ctx, nil, nil, []uint{tr.ID})
	if err != nil {
		queryFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, h.builder(c, idx).transcription(*tr))
}
