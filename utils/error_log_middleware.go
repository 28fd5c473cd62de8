package utils

import (
	"log"

	"github.com/gin-gonic/gin"
)

type errorBodyWriter struct {
	gin.ResponseWriter
	context *gin.Context
}

func (w *errorBodyWriter) Write(b []byte) (int, error) {
	if status := w.context.Writer.Status(); status >= 400 {
		log.Printf("Response %d: %s", status, string(b))
	}
	return w.ResponseWriter.Write(b)
}

// ErrorLogMiddleware logs the body of every error response. Debug aid only;
// install it before gzip or the logged body is compressed garbage.
func ErrorLogMiddleware(c *gin.Context) {
	c.Writer = &errorBodyWriter{ResponseWriter: c.Writer, context: c}
	c.Next()
}
