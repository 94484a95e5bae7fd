package model

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleSupervisor Role = "SUPERVISOR"
	RoleWorker     Role = "WORKER"
)

// Principal is the authenticated caller, decoded from an access token issued
// by the surrounding application.
type Principal struct {
	UserID uuid.UUID
	Name   string
	Role   Role
}

func (p Principal) IsAdmin() bool      { return p.Role == RoleAdmin }
func (p Principal) IsSupervisor() bool { return p.Role == RoleSupervisor }
func (p Principal) IsWorker() bool     { return p.Role == RoleWorker }
