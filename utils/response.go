package utils

import "github.com/gin-gonic/gin"

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

// JSONError writes the error envelope; message must be safe to show to the caller.
func JSONError(c *gin.Context, code int, errCode string, message string) {
	c.AbortWithStatusJSON(code, gin.H{"success": false, "error": ErrorBody{Code: errCode, Message: message}})
}
