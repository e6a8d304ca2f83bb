package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-taskhub/internal/access"
	"go-gin-taskhub/internal/domain"
	"go-gin-taskhub/internal/service"
	mdw "go-gin-taskhub/internal/transport/http/middleware"
	"go-gin-taskhub/internal/transport/http/router"
)

type TaskHandler struct {
	tasks *service.TaskService
	log   *zap.Logger
}

func NewTaskHandler(t *service.TaskService, l *zap.Logger) *TaskHandler {
	return &TaskHandler{tasks: t, log: l}
}

func callerOf(c *gin.Context) (domain.Caller, bool) { return mdw.CallerFrom(c) }

func (h *TaskHandler) MountAPI(_, authed *gin.RouterGroup) {
	router.RegisterAction(authed, h.log, router.Action[struct{}, []domain.Task]{
		Method: http.MethodGet, Path: "/tasks", Binder: router.BindNone, Op: access.ListTasks,
		Handler: h.list,
	})
	router.RegisterAction(authed, h.log, router.Action[struct{}, countView]{
		Method: http.MethodGet, Path: "/tasks/count", Binder: router.BindNone, Op: access.ListTasks,
		Handler: h.count,
	})
	router.RegisterAction(authed, h.log, router.Action[struct{}, *domain.Task]{
		Method: http.MethodGet, Path: "/tasks/:id", Binder: router.BindNone, Op: access.ReadTask,
		Handler: h.get,
	})
	router.RegisterAction(authed, h.log, router.Action[taskIn, *domain.Task]{
		Method: http.MethodPost, Path: "/tasks", Binder: router.BindJSON, Op: access.CreateTask,
		Handler: h.create,
	})
	router.RegisterAction(authed, h.log, router.Action[taskIn, idView]{
		Method: http.MethodPut, Path: "/tasks/:id", Binder: router.BindJSON, Op: access.UpdateTask,
		Handler: h.update,
	})
	router.RegisterAction(authed, h.log, router.Action[statusIn, idView]{
		Method: http.MethodPatch, Path: "/tasks/:id/status", Binder: router.BindJSON, Op: access.UpdateTaskStatus,
		Handler: h.updateStatus,
	})
	router.RegisterAction(authed, h.log, router.Action[assigneeIn, idView]{
		Method: http.MethodPatch, Path: "/tasks/:id/assignee", Binder: router.BindJSON, Op: access.ReassignTask,
		Handler: h.reassign,
	})
	router.RegisterAction(authed, h.log, router.Action[struct{}, idView]{
		Method: http.MethodDelete, Path: "/tasks/:id", Binder: router.BindNone, Op: access.DeleteTask,
		Handler: h.delete,
	})
}

func (h *TaskHandler) list(c *gin.Context, caller domain.Caller, _ *struct{}) ([]domain.Task, error) {
	ts, err := h.tasks.ListForRole(c.Request.Context(), caller)
	if err != nil {
		return nil, err
	}
	if ts == nil {
		ts = []domain.Task{}
	}
	return ts, nil
}

func (h *TaskHandler) count(c *gin.Context, caller domain.Caller, _ *struct{}) (countView, error) {
	n, err := h.tasks.CountForRole(c.Request.Context(), caller)
	return countView{Count: n}, err
}

// owned loads the task and checks the caller may apply op to it.
func (h *TaskHandler) owned(c *gin.Context, caller domain.Caller, op access.Operation) (*domain.Task, error) {
	id, err := router.ParamID(c, "id")
	if err != nil {
		return nil, err
	}
	t, err := h.tasks.Get(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if err := access.AuthorizeOwner(caller, op, t.AssignedUserID); err != nil {
		return nil, err
	}
	return t, nil
}

func (h *TaskHandler) get(c *gin.Context, caller domain.Caller, _ *struct{}) (*domain.Task, error) {
	return h.owned(c, caller, access.ReadTask)
}

func (h *TaskHandler) create(c *gin.Context, _ domain.Caller, in *taskIn) (*domain.Task, error) {
	return h.tasks.Create(c.Request.Context(), in.toDomain())
}

func (h *TaskHandler) update(c *gin.Context, _ domain.Caller, in *taskIn) (idView, error) {
	id, err := router.ParamID(c, "id")
	if err != nil {
		return idView{}, err
	}
	return idView{ID: id}, h.tasks.Update(c.Request.Context(), id, in.toDomain())
}

func (h *TaskHandler) updateStatus(c *gin.Context, caller domain.Caller, in *statusIn) (idView, error) {
	t, err := h.owned(c, caller, access.UpdateTaskStatus)
	if err != nil {
		return idView{}, err
	}
	st, err := domain.ParseTaskStatusStrict(in.Status)
	if err != nil {
		return idView{}, err
	}
	return idView{ID: t.ID}, h.tasks.UpdateStatus(c.Request.Context(), t.ID, st)
}

func (h *TaskHandler) reassign(c *gin.Context, _ domain.Caller, in *assigneeIn) (idView, error) {
	id, err := router.ParamID(c, "id")
	if err != nil {
		return idView{}, err
	}
	return idView{ID: id}, h.tasks.Reassign(c.Request.Context(), id, in.AssignedUserID)
}

func (h *TaskHandler) delete(c *gin.Context, _ domain.Caller, _ *struct{}) (idView, error) {
	id, err := router.ParamID(c, "id")
	if err != nil {
		return idView{}, err
	}
	return idView{ID: id}, h.tasks.Delete(c.Request.Context(), id)
}
