package domain

import "strings"

type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleSupervisor Role = "Supervisor"
	RoleEmployee   Role = "Employee"
)

var roles = []Role{RoleAdmin, RoleSupervisor, RoleEmployee}

func (r Role) Valid() bool {
	for _, v := range roles {
		if r == v {
			return true
		}
	}
	return false
}

// ParseRole matches case-insensitively; an empty string yields RoleEmployee.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RoleEmployee, nil
	}
	for _, v := range roles {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", Validation("unknown role %q", s)
}

type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "InProgress"
	StatusCompleted  TaskStatus = "Completed"
	StatusCancelled  TaskStatus = "Cancelled"
)

var statuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

func TaskStatuses() []TaskStatus { return append([]TaskStatus(nil), statuses...) }

func (s TaskStatus) Valid() bool {
	for _, v := range statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseTaskStatus matches case-insensitively; an empty string yields StatusPending.
func ParseTaskStatus(s string) (TaskStatus, error) {
	if strings.TrimSpace(s) == "" {
		return StatusPending, nil
	}
	return ParseTaskStatusStrict(s)
}

// ParseTaskStatusStrict is ParseTaskStatus without the empty default.
func ParseTaskStatusStrict(s string) (TaskStatus, error) {
	s = strings.TrimSpace(s)
	for _, v := range statuses {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", InvalidStatus(s)
}
