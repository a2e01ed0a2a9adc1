package response

import (
	"github.com/gin-gonic/gin"

	"portfolio/internal/pkg/apperr"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// FromError maps an apperr-coded error onto the envelope. Internal causes
// are attached to the gin context for the request logger, not the client.
func FromError(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	status := apperr.HTTPStatus(err)
	switch code {
	case apperr.CodeValidation:
		ErrorWithDetails(c, status, string(code), "Validation failed", apperr.FieldsOf(err))
	case apperr.CodeNotFound:
		Error(c, status, string(code), "Record not found")
	case apperr.CodeIOFailure:
		_ = c.Error(err)
		Error(c, status, string(code), "File storage failed")
	case apperr.CodeUnauthorized, apperr.CodeForbidden:
		Error(c, status, string(code), err.Error())
	default:
		_ = c.Error(err)
		Error(c, status, string(apperr.CodeInternal), "Internal server error")
	}
}
