// Package render is the view seam between handlers and whatever produces
// the response body. The default renderer emits JSON view descriptors; an
// HTML template layer can replace it without touching the handlers.
package render

import (
	"github.com/gin-gonic/gin"

	"ficore/internal/session"
)

// Renderer turns a named view plus its data into a response.
type Renderer interface {
	View(c *gin.Context, status int, view string, data gin.H)
}

// JSON renders view descriptors as JSON documents, attaching the request's
// pending flashes.
type JSON struct{}

var _ Renderer = JSON{}

func (JSON) View(c *gin.Context, status int, view string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	rec := session.FromContext(c)
	if flashes := rec.TakeFlashes(); len(flashes) > 0 {
		data["flashes"] = flashes
	}
	data["view"] = view
	if lang := rec.Language; lang != "" {
		data["language"] = lang
	}
	c.JSON(status, data)
}
