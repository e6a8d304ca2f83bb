package handler

import (
	"time"

	"go-gin-taskhub/internal/domain"
)

type userView struct {
	ID        uint        `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

func toUserView(u *domain.User) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

func toUserViews(us []domain.User) []userView {
	out := make([]userView, 0, len(us))
	for i := range us {
		out = append(out, toUserView(&us[i]))
	}
	return out
}

type countView struct {
	Count int64 `json:"count"`
}

type idView struct {
	ID uint `json:"id"`
}

type registerIn struct {
	Name     string `json:"name"     binding:"required,max=100"`
	Email    string `json:"email"    binding:"required,email,max=100"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type loginIn struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginOut struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      userView  `json:"user"`
}

type userIn struct {
	Name     string `json:"name"     binding:"required,max=100"`
	Email    string `json:"email"    binding:"required,email,max=100"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type taskIn struct {
	Title          string     `json:"title"          binding:"required,max=200"`
	Description    string     `json:"description"`
	DueDate        *time.Time `json:"dueDate"`
	Status         string     `json:"status"`
	AssignedUserID uint       `json:"assignedUserId" binding:"required"`
}

func (in taskIn) toDomain() domain.Task {
	return domain.Task{
		Title:          in.Title,
		Description:    in.Description,
		DueDate:        in.DueDate,
		Status:         domain.TaskStatus(in.Status),
		AssignedUserID: in.AssignedUserID,
	}
}

type statusIn struct {
	Status string `json:"status"`
}

type assigneeIn struct {
	AssignedUserID uint `json:"assignedUserId" binding:"required"`
}
