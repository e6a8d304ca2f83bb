// Package access holds the role policy table consulted before every gated operation.
package access

import "go-gin-taskhub/internal/domain"

type Operation string

const (
	ListTasks        Operation = "tasks.list"
	ReadTask         Operation = "tasks.read"
	CreateTask       Operation = "tasks.create"
	UpdateTask       Operation = "tasks.update"
	UpdateTaskStatus Operation = "tasks.update_status"
	ReassignTask     Operation = "tasks.reassign"
	DeleteTask       Operation = "tasks.delete"
	ListUsers        Operation = "users.list"
	CountUsers       Operation = "users.count"
	ReadUser         Operation = "users.read"
	CreateUser       Operation = "users.create"
	UpdateUser       Operation = "users.update"
	DeleteUser       Operation = "users.delete"
)

// Scope is how much of a resource class a role may touch for one operation.
type Scope int

const (
	None Scope = iota
	Own
	All
)

func (s Scope) String() string {
	switch s {
	case Own:
		return "own"
	case All:
		return "all"
	default:
		return "none"
	}
}

type row struct{ admin, supervisor, employee Scope }

var table = map[Operation]row{
	ListTasks:        {All, All, Own},
	ReadTask:         {All, All, Own},
	CreateTask:       {All, All, None},
	UpdateTask:       {All, All, None},
	UpdateTaskStatus: {All, All, Own},
	ReassignTask:     {All, All, None},
	DeleteTask:       {All, None, None},
	ListUsers:        {All, All, None},
	CountUsers:       {All, None, None},
	ReadUser:         {All, None, None},
	CreateUser:       {All, None, None},
	UpdateUser:       {All, None, None},
	DeleteUser:       {All, None, None},
}

// ScopeFor returns the scope granted to role for op. Unknown roles and operations get None.
func ScopeFor(role domain.Role, op Operation) Scope {
	r, ok := table[op]
	if !ok {
		return None
	}
	switch role {
	case domain.RoleAdmin:
		return r.admin
	case domain.RoleSupervisor:
		return r.supervisor
	case domain.RoleEmployee:
		return r.employee
	default:
		return None
	}
}

// Authorize admits the caller when the role has any scope for op.
// Own-scoped callers still need AuthorizeOwner once the resource owner is known.
func Authorize(c domain.Caller, op Operation) (Scope, error) {
	s := ScopeFor(c.Role, op)
	if s == None {
		return None, forbidden(c, op)
	}
	if s == Own && c.UserID == 0 {
		return None, forbidden(c, op)
	}
	return s, nil
}

// AuthorizeOwner admits the caller for op on a resource owned by ownerID.
func AuthorizeOwner(c domain.Caller, op Operation, ownerID uint) error {
	s, err := Authorize(c, op)
	if err != nil {
		return err
	}
	if s == Own && !c.Owns(ownerID) {
		return forbidden(c, op)
	}
	return nil
}

func forbidden(c domain.Caller, op Operation) error {
	return domain.Forbidden("role %s may not perform %s", c.Role, op)
}
