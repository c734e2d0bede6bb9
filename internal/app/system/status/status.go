// internal/app/system/status/status.go

// Package status defines the lifecycle states shared by users and groups.
package status

const (
	Active   = "active"
	Disabled = "disabled"
	Archived = "archived"
)
