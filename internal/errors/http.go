package errors

import "github.com/gin-gonic/gin"

// ErrorBody is the JSON shape of every HTTP error response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Abort writes err as an ErrorBody with the matching HTTP status and stops
// the handler chain.
func Abort(c *gin.Context, err error) {
	httpStatus, reason, msg := HTTPStatus(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(httpStatus, ErrorBody{Error: msg, Code: reason})
}
