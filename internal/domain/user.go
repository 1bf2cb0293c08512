package domain

import "time"

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// Principal is a directory-registered worker. SecretHash is an argon2id
// digest and is never serialized.
type Principal struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	SecretHash       string     `json:"-"`
	Role             Role       `json:"role"`
	Department       string     `json:"department"`
	BaseCompensation float64    `json:"base_compensation"`
	DeviceID         string     `json:"device_id"`
	OfficeLocation   Coordinate `json:"office_location"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// IsAdmin reports whether the principal holds the ADMIN role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// PrincipalPatch carries the fields an administrator may override. Nil
// fields are left untouched.
type PrincipalPatch struct {
	Name             *string
	Email            *string
	Secret           *string
	Role             *Role
	Department       *string
	BaseCompensation *float64
	DeviceID         *string
	OfficeLocation   *Coordinate
}

// Session is the single authenticated principal of the running process.
type Session struct {
	ID        string    `json:"id"`
	Principal Principal `json:"principal"`
	StartedAt time.Time `json:"started_at"`
}

// Actor identifies who performed an audited action.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SystemActor is recorded when no principal is authenticated.
var SystemActor = Actor{ID: "system", Name: "System"}

// ActorOf returns the audit actor for p, or SystemActor when p is nil.
func ActorOf(p *Principal) Actor {
	if p == nil {
		return SystemActor
	}
	return Actor{ID: p.ID, Name: p.Name}
}
