package session

type Role int

const (
	RoleAnonymous Role = iota
	RoleUser
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAdmin:
		return "admin"
	default:
		return "anonymous"
	}
}

// Identity is who the request acts as. Users and admins come from different
// tables, so ID is only meaningful together with Role.
type Identity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

func Anonymous() Identity { return Identity{} }

func User(id int64, username string) Identity {
	return Identity{ID: id, Name: username, Role: RoleUser}
}

func Admin(id int64, login string) Identity {
	return Identity{ID: id, Name: login, Role: RoleAdmin}
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// IsUser reports an authenticated non-admin.
func (i Identity) IsUser() bool { return i.Role == RoleUser }

func (i Identity) IsAuthenticated() bool { return i.Role != RoleAnonymous }

// CanAccessUser reports whether the identity may read or change the user
// account userID.
func (i Identity) CanAccessUser(userID int64) bool {
	return i.IsAdmin() || (i.IsUser() && i.ID == userID)
}
