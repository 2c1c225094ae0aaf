package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/serendibtrip/serendibtrip-api/errors"
	"github.com/serendibtrip/serendibtrip-api/logger"
)

// ErrorHandler renders the last error a handler attached with c.Error.
// AppError extras (quota state, upgrade hints, the conflicting trip) are
// merged into the body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		last := c.Errors.Last()
		err := last.Err

		if appError, ok := err.(*errors.AppError); ok {
			statusCode := appError.GetHTTPStatus()
			logger.LogHTTPError(c, err, statusCode, string(appError.Type)+" error")

			response := gin.H{
				"type":    string(appError.Type),
				"message": appError.Message,
				"code":    strconv.Itoa(statusCode),
			}
			if appError.Code != "" {
				response["errorCode"] = appError.Code
			}

			// Server-side details stay out of production responses
			if appError.Detail != "" && (gin.IsDebugging() || statusCode < 500) {
				response["details"] = appError.Detail
			}
			for k, v := range appError.Extra {
				response[k] = v
			}

			if retry, ok := appError.Extra["retryAfter"].(int); ok && retry > 0 {
				c.Header("Retry-After", strconv.Itoa(retry))
			}

			c.JSON(statusCode, response)
			return
		}

		if last.Type == gin.ErrorTypeBind {
			logger.LogHTTPError(c, err, 400, "Request binding error")
			c.JSON(400, gin.H{
				"type":    string(errors.ValidationError),
				"message": "Failed to bind request",
				"code":    "400",
				"details": err.Error(),
			})
			return
		}

		if last.Type == gin.ErrorTypePublic {
			logger.LogHTTPError(c, err, 400, "Public error")
			c.JSON(400, gin.H{
				"type":    string(errors.ValidationError),
				"message": err.Error(),
				"code":    "400",
			})
			return
		}

		logger.LogHTTPError(c, err, 500, "Unexpected server error")

		response := gin.H{
			"type":    string(errors.ServerError),
			"message": "Internal Server Error",
			"code":    "500",
		}
		if gin.IsDebugging() {
			response["details"] = err.Error()
		}
		c.JSON(500, response)
	}
}
