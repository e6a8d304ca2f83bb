package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-taskhub/internal/domain"
	"go-gin-taskhub/internal/service"
	"go-gin-taskhub/internal/transport/http/router"
)

type AuthHandler struct {
	auth  *service.AuthService
	users *service.UserService
	log   *zap.Logger
}

func NewAuthHandler(a *service.AuthService, u *service.UserService, l *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: a, users: u, log: l}
}

func (h *AuthHandler) Priority() int { return 10 }

func (h *AuthHandler) MountAPI(public, authed *gin.RouterGroup) {
	router.RegisterAction(public, h.log, router.Action[registerIn, userView]{
		Method:  http.MethodPost,
		Path:    "/auth/register",
		Binder:  router.BindJSON,
		Handler: h.register,
	})
	router.RegisterAction(public, h.log, router.Action[loginIn, loginOut]{
		Method:  http.MethodPost,
		Path:    "/auth/login",
		Binder:  router.BindJSON,
		Handler: h.login,
	})
	router.RegisterAction(authed, h.log, router.Action[struct{}, userView]{
		Method:  http.MethodGet,
		Path:    "/me",
		Binder:  router.BindNone,
		Handler: h.me,
	})
}

func (h *AuthHandler) register(c *gin.Context, _ domain.Caller, in *registerIn) (userView, error) {
	u, err := h.auth.Register(c.Request.Context(), domain.User{
		Name:  in.Name,
		Email: in.Email,
		Role:  domain.Role(in.Role),
	}, in.Password)
	if err != nil {
		return userView{}, err
	}
	return toUserView(u), nil
}

func (h *AuthHandler) login(c *gin.Context, _ domain.Caller, in *loginIn) (loginOut, error) {
	tok, u, err := h.auth.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		return loginOut{}, err
	}
	return loginOut{Token: tok.Value, ExpiresAt: tok.ExpiresAt, User: toUserView(u)}, nil
}

// me resolves the caller's own record; it needs a token but no policy row.
func (h *AuthHandler) me(c *gin.Context, _ domain.Caller, _ *struct{}) (userView, error) {
	caller, ok := callerOf(c)
	if !ok {
		return userView{}, domain.InvalidToken(nil)
	}
	u, err := h.users.Get(c.Request.Context(), caller.UserID)
	if err != nil {
		return userView{}, err
	}
	return toUserView(u), nil
}
