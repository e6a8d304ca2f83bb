package router_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"go-gin-taskhub/internal/access"
	"go-gin-taskhub/internal/domain"
	mdw "go-gin-taskhub/internal/transport/http/middleware"
	resp "go-gin-taskhub/internal/transport/http/response"
	"go-gin-taskhub/internal/transport/http/router"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(t *testing.T, r http.Handler, method, path, body string) resp.Resp {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out resp.Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func withCaller(c domain.Caller) gin.HandlerFunc {
	return func(ctx *gin.Context) { ctx.Set(mdw.KeyCaller, c) }
}

type echoIn struct {
	Name string `json:"name" binding:"required"`
}

func TestRegisterAction(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	l := zap.New(core)

	r := gin.New()
	emp := r.Group("/emp", withCaller(domain.Caller{UserID: 3, Role: domain.RoleEmployee}))
	anon := r.Group("/anon")

	gated := router.Action[echoIn, string]{
		Method: http.MethodPost, Path: "/echo", Binder: router.BindJSON, Op: access.ListTasks,
		Handler: func(_ *gin.Context, c domain.Caller, in *echoIn) (string, error) {
			return in.Name, nil
		},
	}
	router.RegisterAction(emp, l, gated)
	router.RegisterAction(anon, l, gated)
	router.RegisterAction(emp, l, router.Action[struct{}, string]{
		Method: http.MethodDelete, Path: "/x", Binder: router.BindNone, Op: access.DeleteTask,
		Handler: func(*gin.Context, domain.Caller, *struct{}) (string, error) { return "", nil },
	})
	router.RegisterAction(anon, l, router.Action[struct{}, string]{
		Method: http.MethodGet, Path: "/fail", Binder: router.BindNone,
		Handler: func(*gin.Context, domain.Caller, *struct{}) (string, error) {
			return "", errors.New("dial tcp 10.0.0.3:5432: refused")
		},
	})

	out := serve(t, r, http.MethodPost, "/emp/echo", `{"name":"ana"}`)
	assert.Equal(t, resp.CodeOK, out.Code)
	assert.Equal(t, "ana", out.Data)

	assert.Equal(t, resp.CodeBadRequest, serve(t, r, http.MethodPost, "/emp/echo", `{}`).Code)
	assert.Equal(t, resp.CodeUnauthorized, serve(t, r, http.MethodPost, "/anon/echo", `{"name":"x"}`).Code)
	assert.Equal(t, resp.CodeForbidden, serve(t, r, http.MethodDelete, "/emp/x", "").Code)

	assert.Zero(t, logs.Len())
	out = serve(t, r, http.MethodGet, "/anon/fail", "")
	assert.Equal(t, resp.CodeServerError, out.Code)
	assert.NotContains(t, out.Msg, "10.0.0.3")
	assert.Equal(t, 1, logs.Len())
}

func TestParamID(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want uint
		ok   bool
	}{{"7", 7, true}, {"0", 0, false}, {"-1", 0, false}, {"abc", 0, false}} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "id", Value: tt.in}}
		got, err := router.ParamID(c, "id")
		if tt.ok {
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		} else {
			assert.True(t, domain.IsCode(err, domain.CodeValidation), tt.in)
		}
	}
}

type mod struct {
	name  string
	prio  int
	order *[]string
}

func (m mod) Priority() int { return m.prio }
func (m mod) MountAPI(_, _ *gin.RouterGroup) {
	*m.order = append(*m.order, "api:"+m.name)
}
func (m mod) MountAdmin(*gin.RouterGroup) {
	*m.order = append(*m.order, "admin:"+m.name)
}

func TestRegistry_MountsByPriority(t *testing.T) {
	var order []string
	reg := router.NewRegistry(mod{"late", 200, &order}, mod{"early", 1, &order})
	reg.Register(struct{}{})

	g := gin.New().Group("")
	reg.MountAllAPI(g, g)
	reg.MountAllAdmin(g)
	assert.Equal(t, []string{"api:early", "api:late", "admin:early", "admin:late"}, order)
}
