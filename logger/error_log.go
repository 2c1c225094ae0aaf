package logger

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Gin context keys written by the middleware package. Duplicated here as
// plain strings because middleware imports logger.
const (
	ginRequestIDKey = "request_id"
	ginUserIDKey    = "userID"
	ginSessionIDKey = "sessionID"
)

// LogError logs a detailed error with contextual information. When ctx is a
// *gin.Context the request ID, actor and route are attached.
func LogError(ctx context.Context, err error, message string, metadata map[string]interface{}) {
	log := GetLogger()

	fields := []zap.Field{zap.Error(err)}
	if err != nil {
		fields = append(fields, zap.String("error_type", fmt.Sprintf("%T", err)))
	}

	if ginCtx, ok := ctx.(*gin.Context); ok {
		if v := ginCtx.GetString(ginRequestIDKey); v != "" {
			fields = append(fields, zap.String("request_id", v))
		}
		if v := ginCtx.GetString(ginUserIDKey); v != "" {
			fields = append(fields, zap.String("user_id", v))
		}
		if v := ginCtx.GetString(ginSessionIDKey); v != "" {
			fields = append(fields, zap.String("session_id", MaskSensitiveString(v, 4, 2)))
		}
		if ginCtx.Request != nil {
			fields = append(fields,
				zap.String("path", ginCtx.Request.URL.Path),
				zap.String("method", ginCtx.Request.Method),
				zap.String("ip_address", ginCtx.ClientIP()),
			)
		}
	}

	// Stack traces are noisy in production logs.
	if os.Getenv("SERVER_ENVIRONMENT") != "production" {
		fields = append(fields, zap.String("stack_trace", getStackTrace(3)))
	}

	for k, v := range metadata {
		fields = append(fields, zap.Any(k, v))
	}

	log.Desugar().Error(message, fields...)
}

// LogHTTPError logs an HTTP request error with context from a gin.Context
func LogHTTPError(c *gin.Context, err error, statusCode int, message string) {
	metadata := map[string]interface{}{
		"status_code": statusCode,
		"headers":     filterSensitiveHeaders(c.Request.Header),
	}

	// Client errors are expected traffic; only 5xx get the error level.
	if statusCode < http.StatusInternalServerError {
		GetLogger().Warnw(message,
			"error", err,
			"status_code", statusCode,
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", c.GetString(ginRequestIDKey),
		)
		return
	}

	LogError(c, err, message, metadata)
}

// getStackTrace captures a stack trace starting from the specified skip level
func getStackTrace(skip int) string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var builder strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.Function, "runtime.") {
			builder.WriteString(frame.Function)
			builder.WriteString("\n\t")
			builder.WriteString(frame.File)
			builder.WriteString(":")
			builder.WriteString(strconv.Itoa(frame.Line))
			builder.WriteString("\n")
		}
		if !more {
			break
		}
	}

	return builder.String()
}

// filterSensitiveHeaders removes sensitive information from headers before logging
func filterSensitiveHeaders(headers http.Header) map[string]string {
	filtered := make(map[string]string)

	for name, values := range headers {
		lower := strings.ToLower(name)
		if lower == "authorization" ||
			lower == "cookie" ||
			strings.Contains(lower, "token") ||
			strings.Contains(lower, "key") ||
			strings.Contains(lower, "secret") {
			filtered[name] = "[REDACTED]"
			continue
		}

		if len(values) > 0 {
			filtered[name] = values[0]
		}
	}

	return filtered
}
