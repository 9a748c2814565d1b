package domain

type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

func IsValidRole(r string) bool {
	switch Role(r) {
	case RoleOwner, RoleEditor, RoleViewer:
		return true
	}
	return false
}

type Collaborator struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// SameCollaborators compares two lists by user id and role, ignoring order.
func SameCollaborators(a, b []Collaborator) bool {
	if len(a) != len(b) {
		return false
	}
	roles := make(map[string]Role, len(a))
	for _, c := range a {
		roles[c.UserID] = c.Role
	}
	for _, c := range b {
		role, ok := roles[c.UserID]
		if !ok || role != c.Role {
			return false
		}
	}
	return true
}

func CloneCollaborators(in []Collaborator) []Collaborator {
	if in == nil {
		return nil
	}
	out := make([]Collaborator, len(in))
	copy(out, in)
	return out
}
