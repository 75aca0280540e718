package access

import (
	"errors"
	"net/http"
)

var (
	// ErrAuthenticationRequired means the request carried no valid identity
	// for an operation that needs one.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrPermissionDenied means the identity is present but not privileged
	// enough, or is not the owner of the target object.
	ErrPermissionDenied = errors.New("permission denied")
)

// Policy is the request-level access rule attached to a resource type.
type Policy int

const (
	// AdminOnly: every method requires admin (user management).
	AdminOnly Policy = iota
	// AdminOrReadOnly: reads are public, writes require admin (reference data).
	AdminOrReadOnly
	// AuthenticatedOrReadOnly: reads are public, writes require a logged-in
	// user; object ownership is checked separately (reviews, comments).
	AuthenticatedOrReadOnly
)

// IsRead reports whether the method is a safe (read) method.
func IsRead(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// Allow is the request-level check: can this method+level combination be
// attempted at all. It runs before the target object is fetched and a deny
// short-circuits the request. Anonymous denials map to an authentication
// failure, everything else to a permission failure.
func Allow(method string, level Level, policy Policy) error {
	switch policy {
	case AdminOnly:
		return require(level, Admin)
	case AdminOrReadOnly:
		if IsRead(method) {
			return nil
		}
		return require(level, Admin)
	case AuthenticatedOrReadOnly:
		if IsRead(method) {
			return nil
		}
		return require(level, Authenticated)
	}
	return ErrPermissionDenied
}

// AllowObject is the object-level check for writes on an existing object:
// the original author may modify it, as may moderators and admins. Reads
// always pass. Allow must already have admitted the request.
func AllowObject(method string, level Level, actorID, ownerID string) error {
	if IsRead(method) {
		return nil
	}
	if level == Anonymous {
		return ErrAuthenticationRequired
	}
	if actorID == ownerID || level.AtLeast(Moderator) {
		return nil
	}
	return ErrPermissionDenied
}

func require(level, min Level) error {
	if level.AtLeast(min) {
		return nil
	}
	if level == Anonymous {
		return ErrAuthenticationRequired
	}
	return ErrPermissionDenied
}
