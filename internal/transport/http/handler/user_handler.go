package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-taskhub/internal/access"
	"go-gin-taskhub/internal/domain"
	"go-gin-taskhub/internal/service"
	"go-gin-taskhub/internal/transport/http/router"
)

type UserHandler struct {
	users *service.UserService
	log   *zap.Logger
}

func NewUserHandler(u *service.UserService, l *zap.Logger) *UserHandler {
	return &UserHandler{users: u, log: l}
}

// MountAPI exposes the user listing to Admin and Supervisor on the public API.
func (h *UserHandler) MountAPI(_, authed *gin.RouterGroup) {
	router.RegisterAction(authed, h.log, router.Action[struct{}, []userView]{
		Method: http.MethodGet, Path: "/users", Binder: router.BindNone, Op: access.ListUsers,
		Handler: h.list,
	})
}

func (h *UserHandler) MountAdmin(admin *gin.RouterGroup) {
	router.RegisterAction(admin, h.log, router.Action[struct{}, []userView]{
		Method: http.MethodGet, Path: "/users", Binder: router.BindNone, Op: access.ListUsers,
		Handler: h.list,
	})
	router.RegisterAction(admin, h.log, router.Action[struct{}, countView]{
		Method: http.MethodGet, Path: "/users/count", Binder: router.BindNone, Op: access.CountUsers,
		Handler: h.count,
	})
	router.RegisterAction(admin, h.log, router.Action[struct{}, userView]{
		Method: http.MethodGet, Path: "/users/:id", Binder: router.BindNone, Op: access.ReadUser,
		Handler: h.get,
	})
	router.RegisterAction(admin, h.log, router.Action[userIn, userView]{
		Method: http.MethodPost, Path: "/users", Binder: router.BindJSON, Op: access.CreateUser,
		Handler: h.create,
	})
	router.RegisterAction(admin, h.log, router.Action[userIn, idView]{
		Method: http.MethodPut, Path: "/users/:id", Binder: router.BindJSON, Op: access.UpdateUser,
		Handler: h.update,
	})
	router.RegisterAction(admin, h.log, router.Action[struct{}, idView]{
		Method: http.MethodDelete, Path: "/users/:id", Binder: router.BindNone, Op: access.DeleteUser,
		Handler: h.delete,
	})
}

func (h *UserHandler) list(c *gin.Context, _ domain.Caller, _ *struct{}) ([]userView, error) {
	us, err := h.users.List(c.Request.Context())
	if err != nil {
		return nil, err
	}
	return toUserViews(us), nil
}

func (h *UserHandler) count(c *gin.Context, _ domain.Caller, _ *struct{}) (countView, error) {
	n, err := h.users.Count(c.Request.Context())
	return countView{Count: n}, err
}

func (h *UserHandler) get(c *gin.Context, _ domain.Caller, _ *struct{}) (userView, error) {
	id, err := router.ParamID(c, "id")
	if err != nil {
		return userView{}, err
	}
	u, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		return userView{}, err
	}
	return toUserView(u), nil
}

func (h *UserHandler) create(c *gin.Context, _ domain.Caller, in *userIn) (userView, error) {
	u, err := h.users.Create(c.Request.Context(), domain.User{
		Name:  in.Name,
		Email: in.Email,
		Role:  domain.Role(in.Role),
	}, in.Password)
	if err != nil {
		return userView{}, err
	}
	return toUserView(u), nil
}

func (h *UserHandler) update(c *gin.Context, _ domain.Caller, in *userIn) (idView, error) {
	id, err := router.ParamID(c, "id")
	if err != nil {
		return idView{}, err
	}
	if in.Role == "" {
		return idView{}, domain.Validation("role is required")
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return idView{}, err
	}
	return idView{ID: id}, h.users.Update(c.Request.Context(), id, domain.UserPatch{Name: in.Name, Email: in.Email, Role: role})
}

func (h *UserHandler) delete(c *gin.Context, _ domain.Caller, _ *struct{}) (idView, error) {
	id, err := router.ParamID(c, "id")
	if err != nil {
		return idView{}, err
	}
	return idView{ID: id}, h.users.Delete(c.Request.Context(), id)
}
