package model

// Contact is one entry of the venue contact directory shown alongside the
// advance form and embedded in exports.
type Contact struct {
	ID         int64  `json:"id"`         // contacts.id
	Name       string `json:"name"`       // contacts.name
	Title      string `json:"title"`      // contacts.title
	Department string `json:"department"` // contacts.department
	Phone      string `json:"phone"`      // contacts.phone
	Email      string `json:"email"`      // contacts.email
	SortOrder  int    `json:"sort_order"` // contacts.sort_order
	CreatedAt  string `json:"created_at"` // contacts.created_at
}

// Departments is the fixed department ordering used when grouping the
// contact directory for display and export.
var Departments = []string{
	"Production", "Programming", "Event Manager", "Education Team",
	"Hospitality", "Guest Services", "Security", "Runners",
}
