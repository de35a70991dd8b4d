package session

import "github.com/gin-gonic/gin"

const contextKey = "ficore.session"

// Middleware opens the session record before the handler chain runs and
// saves it afterwards.
func Middleware(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec := m.Open(c)
		c.Set(contextKey, rec)
		c.Next()
		m.Save(c, rec)
	}
}

// FromContext returns the request's session record. Handlers outside the
// middleware chain get a throwaway empty record rather than a nil.
func FromContext(c *gin.Context) *Record {
	if v, ok := c.Get(contextKey); ok {
		if rec, ok := v.(*Record); ok {
			return rec
		}
	}
	return NewRecord()
}
