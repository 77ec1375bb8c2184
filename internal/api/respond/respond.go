// Package respond maps operation outcomes to the web layer's responses.
package respond

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"correspondance-app/internal/domain"

	"github.com/gin-gonic/gin"
)

const errorsPrefix = "Les erreurs suivantes ont été rencontrées : "

// FormError is the body of a rejected submission.
type FormError struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

func NewFormError(messages []string) FormError {
	return FormError{
		Status:  "error",
		Message: errorsPrefix + strings.Join(messages, " ; "),
		Errors:  messages,
	}
}

// Error writes the status matching err and its body.
func Error(c *gin.Context, err error) {
	var (
		ve *domain.ValidationError
		ce *domain.ConflictError
		nf *domain.NotFoundError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &ce):
		c.JSON(http.StatusUnprocessableEntity, NewFormError(domain.Messages(err)))
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
	case errors.Is(err, domain.ErrAnonymous):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Accès refusé"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur interne est survenue"})
	}
}

// Redirect sends the client to location after a successful submission.
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// ParamID reads the :id path parameter. A malformed id answers 404.
func ParamID(c *gin.Context, resource string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": resource + " not found"})
		return 0, false
	}
	return uint(id), true
}
