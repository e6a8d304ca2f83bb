package router

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-taskhub/internal/access"
	"go-gin-taskhub/internal/domain"
	mdw "go-gin-taskhub/internal/transport/http/middleware"
	resp "go-gin-taskhub/internal/transport/http/response"
	"go-gin-taskhub/pkg/errutil"
)

type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindNone  Binder = "none"
)

// Action is one endpoint: I is the bound input, O the data placed in the envelope.
type Action[I any, O any] struct {
	Method string
	Path   string
	Binder Binder
	// Op is checked against the role policy before Handler runs. Empty means public.
	Op      access.Operation
	Handler func(c *gin.Context, caller domain.Caller, in *I) (O, error)
}

// RegisterAction mounts a on g with binding, policy gate and error mapping.
func RegisterAction[I any, O any](g *gin.RouterGroup, l *zap.Logger, a Action[I, O]) {
	if l == nil {
		l = zap.NewNop()
	}
	h := func(c *gin.Context) {
		var caller domain.Caller
		if a.Op != "" {
			var ok bool
			caller, ok = mdw.CallerFrom(c)
			if !ok {
				resp.Abort(c, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
			if _, err := access.Authorize(caller, a.Op); err != nil {
				resp.Abort(c, resp.FromError(err))
				return
			}
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			resp.Abort(c, resp.Error(resp.CodeBadRequest, bindErr.Error()))
			return
		}

		out, err := a.Handler(c, caller, &in)
		if err != nil {
			r := resp.FromError(err)
			if r.Code >= resp.CodeServerError {
				errutil.LogError(l, "request failed", err)
			}
			resp.Abort(c, r)
			return
		}
		resp.JSON(c, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		g.GET(a.Path, h)
	case http.MethodPut:
		g.PUT(a.Path, h)
	case http.MethodPatch:
		g.PATCH(a.Path, h)
	case http.MethodDelete:
		g.DELETE(a.Path, h)
	default:
		g.POST(a.Path, h)
	}
}

// ParamID reads a positive integer path parameter.
func ParamID(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, domain.Validation("%s must be a positive integer", name)
	}
	return uint(v), nil
}
