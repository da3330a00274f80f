package model

// Form types are the unit of history snapshotting.  Each show carries one
// key/value form per type plus the ordered schedule row list.
const (
	FormTypeAdvance   = "advance"
	FormTypeSchedule  = "schedule"
	FormTypePostNotes = "postnotes"
)

// ScheduleRow is one line of the day-of production timeline.  The whole
// list is replaced atomically on each save, so rows have no stable
// identity across saves; SortOrder is their only ordering.
type ScheduleRow struct {
	ID          int64  `json:"id"`          // schedule_rows.id
	ShowID      int64  `json:"-"`           // schedule_rows.show_id
	SortOrder   int    `json:"sort_order"`  // schedule_rows.sort_order
	StartTime   string `json:"start_time"`  // schedule_rows.start_time
	EndTime     string `json:"end_time"`    // schedule_rows.end_time
	Description string `json:"description"` // schedule_rows.description
	Notes       string `json:"notes"`       // schedule_rows.notes
}

// HistoryEntry is one snapshot in the bounded per-(show, form_type)
// journal.  Snapshot holds the full payload exactly as submitted, wrapped
// per form type: {"advance_data":{...}}, {"meta":{...},"rows":[...]} or
// {"notes_data":{...}}.
type HistoryEntry struct {
	ID          int64  `json:"id"`            // form_history.id
	ShowID      int64  `json:"show_id"`       // form_history.show_id
	FormType    string `json:"form_type"`     // form_history.form_type
	SavedBy     int64  `json:"saved_by"`      // form_history.saved_by
	SavedByName string `json:"saved_by_name"` // joined from users.display_name
	SavedAt     string `json:"saved_at"`      // form_history.saved_at
	Snapshot    string `json:"-"`             // form_history.snapshot_json
}

// Presence is one row of the ephemeral active_sessions table: which user
// is looking at which show, on which tab, with which field focused.
type Presence struct {
	UserID       int64  // active_sessions.user_id
	ShowID       int64  // active_sessions.show_id
	Tab          string // active_sessions.tab
	FocusedField string // active_sessions.focused_field
	LastSeen     string // active_sessions.last_seen
}

// ActiveUser is a presence row annotated for display to other editors.
type ActiveUser struct {
	UserID       int64  `json:"user_id"`
	DisplayName  string `json:"display_name"`
	Initials     string `json:"initials"`
	Tab          string `json:"tab"`
	FocusedField string `json:"focused_field"`
	LastSeen     string `json:"last_seen"`
}
