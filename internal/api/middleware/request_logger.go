package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const logFieldsKey = "log_fields"

// resourceParams names the ":id" route param after the resource it addresses.
var resourceParams = map[string]string{
	"/jobs/":              "job_id",
	"/applications/":      "application_id",
	"/ws/conversations/": "conversation_id",
}

// AddLogFields attaches domain fields (match counts, created ids) to the
// request's access log line.
func AddLogFields(c *gin.Context, fields logrus.Fields) {
	cur, _ := c.Get(logFieldsKey)
	acc, _ := cur.(logrus.Fields)
	if acc == nil {
		acc = logrus.Fields{}
		c.Set(logFieldsKey, acc)
	}
	for k, v := range fields {
		acc[k] = v
	}
}

func resourceFields(c *gin.Context) logrus.Fields {
	out := logrus.Fields{}
	if id := c.Param("id"); id != "" {
		for prefix, key := range resourceParams {
			if strings.HasPrefix(c.FullPath(), prefix) {
				out[key] = id
				break
			}
		}
	}
	if conv := c.Query("conversation"); conv != "" {
		out["conversation_id"] = conv
	}
	return out
}

func RequestLogger(l *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header("X-Request-Id", reqID)
		c.Set("request_id", reqID)

		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"request_id": reqID,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
		}
		if userID := c.GetString("user_id"); userID != "" {
			fields["user_id"] = userID
			fields["role"] = c.GetString("role")
		}
		for k, v := range resourceFields(c) {
			fields[k] = v
		}
		if extra, ok := c.Get(logFieldsKey); ok {
			for k, v := range extra.(logrus.Fields) {
				fields[k] = v
			}
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		entry := l.WithFields(fields)
		switch {
		case c.FullPath() == "/ping":
			entry.Debug("request")
		case status >= 500:
			entry.Error("request")
		case status >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}
