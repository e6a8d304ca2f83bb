package task

import (
	"time"

	"go-gin-taskhub/internal/domain"
	"go-gin-taskhub/internal/feature/user"
)

type TaskModel struct {
	ID             uint       `gorm:"primaryKey;autoIncrement"`
	Title          string     `gorm:"size:200;not null"`
	Description    string     `gorm:"type:text"`
	CreatedAt      time.Time  `gorm:"not null"`
	DueDate        *time.Time `gorm:"index"`
	Status         string     `gorm:"size:16;not null;default:Pending"`
	AssignedUserID uint       `gorm:"not null;index"`

	AssignedUser *user.UserModel `gorm:"foreignKey:AssignedUserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (TaskModel) TableName() string { return "tasks" }

func (m *TaskModel) ToDomain() *domain.Task {
	t := &domain.Task{
		ID:             m.ID,
		Title:          m.Title,
		Description:    m.Description,
		CreatedAt:      m.CreatedAt.UTC(),
		Status:         domain.TaskStatus(m.Status),
		AssignedUserID: m.AssignedUserID,
	}
	if m.DueDate != nil {
		d := m.DueDate.UTC()
		t.DueDate = &d
	}
	if m.AssignedUser != nil {
		t.AssignedUserName = m.AssignedUser.Name
	}
	return t
}

func FromDomain(t *domain.Task) *TaskModel {
	return &TaskModel{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		CreatedAt:      t.CreatedAt,
		DueDate:        t.DueDate,
		Status:         string(t.Status),
		AssignedUserID: t.AssignedUserID,
	}
}
