package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-taskhub/internal/domain"
)

type Resp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

// New never leaves data as null.
func New(code int, msg string, data any) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

func OK(data any) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

// Error uses the default message for code unless customMsg is set.
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, struct{}{})
}

var codeByDomain = map[string]int{
	domain.CodeNotFound:            CodeNotFound,
	domain.CodeDuplicateEmail:      CodeConflict,
	domain.CodeInvalidCredentials:  CodeUnauthorized,
	domain.CodeInvalidAssignee:     CodeUnprocessable,
	domain.CodeInvalidStatus:       CodeUnprocessable,
	domain.CodeReferentialConflict: CodeConflict,
	domain.CodeExpiredToken:        CodeUnauthorized,
	domain.CodeInvalidToken:        CodeUnauthorized,
	domain.CodeForbidden:           CodeForbidden,
	domain.CodeValidation:          CodeBadRequest,
}

// FromError maps a domain error to an envelope. Errors without a domain code
// become 500 with a generic message so storage details never leak.
func FromError(err error) Resp {
	code, ok := codeByDomain[domain.ErrorCode(err)]
	if !ok {
		return Error(CodeServerError, "")
	}
	r := Error(code, err.Error())
	if dc := domain.ErrorCode(err); dc != "" {
		r.Data = gin.H{"error": dc}
	}
	return r
}

// KeyCode is the context key holding the envelope code written for a request.
const KeyCode = "resp.code"

// JSON writes r with HTTP 200; the outcome lives in r.Code.
func JSON(c *gin.Context, r Resp) {
	c.Set(KeyCode, r.Code)
	c.JSON(http.StatusOK, r)
}

// Abort is JSON that also stops the chain.
func Abort(c *gin.Context, r Resp) {
	c.Set(KeyCode, r.Code)
	c.AbortWithStatusJSON(http.StatusOK, r)
}

// CodeOf returns the envelope code written for c, or the HTTP status when no envelope was.
func CodeOf(c *gin.Context) int {
	if v, ok := c.Get(KeyCode); ok {
		if code, ok := v.(int); ok {
			return code
		}
	}
	return c.Writer.Status()
}
