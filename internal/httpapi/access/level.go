package access

import "reviewhub/internal/httpapi/models"

// Level is the effective privilege of a request, ordered so that a higher
// level implies every lower one.
type Level int

const (
	Anonymous Level = iota
	Authenticated
	Moderator
	Admin
)

func (l Level) String() string {
	switch l {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	case Moderator:
		return "moderator"
	case Admin:
		return "admin"
	}
	return "unknown"
}

// AtLeast reports whether l grants the permissions of the given level.
func (l Level) AtLeast(other Level) bool {
	return l >= other
}

// Resolve collapses a user's role field and legacy staff/superuser flags
// into a single level. A nil user is an anonymous request. The superuser
// flag implies admin and the staff flag implies moderator regardless of
// the stored role string.
func Resolve(user *models.User) Level {
	if user == nil {
		return Anonymous
	}
	if user.Role == models.RoleAdmin || user.IsSuperuser {
		return Admin
	}
	if user.Role == models.RoleModerator || user.IsStaff {
		return Moderator
	}
	return Authenticated
}
