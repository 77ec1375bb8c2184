package middleware

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// Passwords are hashed as typed, never cleaned.
var rawFields = map[string]bool{
	"motdepasse":         true,
	"ancien_motdepasse":  true,
	"nouveau_motdepasse": true,
}

// Clean strips every HTML tag from s. Input is decoded before sanitizing so
// encoded tags are stripped too, and the sanitizer's own entities are decoded
// again so apostrophes and ampersands are stored as typed.
func Clean(s string) string {
	return html.UnescapeString(strictPolicy.Sanitize(html.UnescapeString(s)))
}

// SanitizeAndCleanInputMiddleware cleans every string field of JSON and form bodies.
func SanitizeAndCleanInputMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		switch c.ContentType() {
		case gin.MIMEJSON:
			sanitizeJSON(c)
		case gin.MIMEPOSTForm, gin.MIMEMultipartPOSTForm:
			sanitizeForm(c)
		}
		if c.IsAborted() {
			return
		}
		c.Next()
	}
}

func sanitizeJSON(c *gin.Context) {
	buf, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
		return
	}
	if len(bytes.TrimSpace(buf)) == 0 {
		c.Request.Body = io.NopCloser(bytes.NewReader(buf))
		return
	}

	var body interface{}
	if err := json.Unmarshal(buf, &body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON"})
		return
	}

	newBody, _ := json.Marshal(cleanValue(body))
	c.Request.Body = io.NopCloser(bytes.NewBuffer(newBody))
	c.Request.ContentLength = int64(len(newBody))
}

func cleanValue(v interface{}) interface{} {
	switch t := v.(type) {
	case string:
		return Clean(t)
	case map[string]interface{}:
		for k, inner := range t {
			if rawFields[k] {
				continue
			}
			t[k] = cleanValue(inner)
		}
		return t
	case []interface{}:
		for i, inner := range t {
			t[i] = cleanValue(inner)
		}
		return t
	}
	return v
}

func sanitizeForm(c *gin.Context) {
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
			return
		}
	} else if err := c.Request.ParseForm(); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
		return
	}

	for _, values := range []map[string][]string{c.Request.PostForm, c.Request.Form} {
		for k, vs := range values {
			if rawFields[k] {
				continue
			}
			for i, v := range vs {
				values[k][i] = Clean(v)
			}
		}
	}
	if c.Request.MultipartForm != nil {
		for k, vs := range c.Request.MultipartForm.Value {
			if rawFields[k] {
				continue
			}
			for i, v := range vs {
				c.Request.MultipartForm.Value[k][i] = Clean(v)
			}
		}
	}
}
