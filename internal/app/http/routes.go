package routes

import (
	authapi "correspondance-app/internal/api/auth"
	catalogapi "correspondance-app/internal/api/catalog"
	"correspondance-app/internal/api/jsonapi"
	usersapi "correspondance-app/internal/api/users"
	"correspondance-app/internal/app/http/middleware"
	"correspondance-app/internal/domain/catalog"
	"correspondance-app/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

type Deps struct {
	DB           *gorm.DB
	Catalog      *catalog.Service
	Sessions     *session.Manager
	Google       *authapi.GoogleProvider
	APIRoute     string
	PageSize     int
	SecureCookie bool
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middleware.LoadSession(d.Sessions))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	web := catalogapi.NewHandler(d.Catalog, d.PageSize)
	auth := authapi.NewHandler(d.DB, d.Sessions, d.SecureCookie, d.Google)
	me := usersapi.NewHandler(d.DB, d.Catalog)

	r.GET("/", web.Home)
	r.GET("/lettres", web.ListLetters)
	r.GET("/lettres/:id", web.GetLetter)
	r.GET("/recherche", web.Search)
	r.GET("/transcriptions", web.ListTranscriptions)
	r.GET("/transcriptions/:id", web.GetTranscription)
	r.GET("/publications", web.ListPublications)
	r.GET("/publications/:id", web.GetPublication)

	jsonapi.NewHandler(d.Catalog, d.APIRoute, d.PageSize).Register(r)

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/inscription", auth.Register)
	public.POST("/connexion", auth.Login)
	public.GET("/deconnexion", auth.Logout)
	public.POST("/deconnexion", auth.Logout)

	r.GET("/auth/google", auth.GoogleStart)
	r.GET("/auth/google/callback", auth.GoogleCallback)

	// Authenticated
	signed := r.Group("/")
	signed.Use(middleware.RequireUser(), middleware.SanitizeAndCleanInputMiddleware())

	signed.GET("/me", me.GetCurrentUser)
	signed.POST("/mot-de-passe", auth.ChangePassword)

	signed.POST("/creation", web.CreateLetter)
	signed.POST("/lettres/:id/edition", web.UpdateLetter)
	signed.POST("/lettres/:id/suppression", web.DeleteLetter)
	signed.POST("/lettres/:id/source", web.AddSource)
	signed.POST("/lettres/:id/supprimer_source", web.RemoveSource)
	signed.POST("/lettres/:id/ajouter_transcription", web.CreateTranscription)

	signed.POST("/transcription/:id/modifier_transcription", web.UpdateTranscription)
	signed.POST("/transcription/:id/supprimer_transcription", web.DeleteTranscription)

	signed.POST("/ajouter_publication", web.CreatePublication)
	signed.POST("/publications/:id/edition", web.UpdatePublication)
	signed.POST("/publications/:id/suppression", web.DeletePublication)
}
