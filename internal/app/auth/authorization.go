// Package auth decides which staff roles may perform which kinds of request.
package auth

import (
	"net/http"

	"github.com/tilab/tilab/internal/app/models"
)

// Action is a class of request
type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
)

// ActionForMethod classifies an HTTP method
func ActionForMethod(method string) Action {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ActionRead
	case http.MethodDelete:
		return ActionDelete
	default:
		return ActionWrite
	}
}

// RequiresAuthentication reports whether action needs a valid token
func RequiresAuthentication(action Action) bool {
	return action != ActionRead
}

// Allowed reports whether role may perform action. Deleting records is
// reserved to administrators.
func Allowed(role models.RoleType, action Action) bool {
	switch action {
	case ActionRead:
		return true
	case ActionWrite:
		return role == models.RoleAdmin || role == models.RoleStaff
	case ActionDelete:
		return role == models.RoleAdmin
	default:
		return false
	}
}
