package models

// RoleType defines the staff role carried in access tokens
type RoleType string

const (
	RoleAdmin RoleType = "ADMIN"
	RoleStaff RoleType = "STAFF"
)

// Collection keys under which each record list is persisted
const (
	KeyComponents = "components"
	KeyCourses    = "courses"
	KeyKits       = "kits"
	KeyLoans      = "loans"
)

// ResourceSections names section events. Sections are persisted inside their
// course, so they have no collection key of their own.
const ResourceSections = "sections"

// Identifier prefixes
const (
	PrefixComponent = "comp"
	PrefixCourse    = "course"
	PrefixSection   = "section"
	PrefixKit       = "kit"
	PrefixLoan      = "loan"
)
