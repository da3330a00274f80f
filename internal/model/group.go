package model

// Group types classify an access group.  A user whose every group is
// restricted sees only granted shows and is read-only; all_access and
// admin_group members see everything.
const (
	GroupTypeAllAccess  = "all_access"
	GroupTypeAdminGroup = "admin_group"
	GroupTypeRestricted = "restricted"
)

// Group is an access group; shows are granted to groups via
// show_group_access and users belong to groups via user_group_members.
type Group struct {
	ID          int64  `json:"id"`          // user_groups.id
	Name        string `json:"name"`        // user_groups.name
	GroupType   string `json:"group_type"`  // user_groups.group_type
	Description string `json:"description"` // user_groups.description
}

// ValidGroupType reports whether t is one of the known group types.
func ValidGroupType(t string) bool {
	switch t {
	case GroupTypeAllAccess, GroupTypeAdminGroup, GroupTypeRestricted:
		return true
	}
	return false
}
