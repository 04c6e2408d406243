package permission

import (
	"errors"
	"strings"
)

// Actions recognized by the per-module helper predicates.
const (
	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// ErrInvalidCapability is returned when a capability string is not of the
// form "<resource>:<action>".
var ErrInvalidCapability = errors.New("invalid capability string")

// Capability builds a "<resource>:<action>" capability string.
func Capability(resource, action string) string {
	return resource + ":" + action
}

// SplitCapability splits a capability string into resource and action.
func SplitCapability(capability string) (resource, action string, err error) {
	resource, action, ok := strings.Cut(capability, ":")
	if !ok || resource == "" || action == "" {
		return "", "", ErrInvalidCapability
	}
	return resource, action, nil
}
