package model

// Show statuses.  A show auto-transitions active→archived once its date is
// in the past and only returns to active by explicit restore.
const (
	ShowStatusActive   = "active"
	ShowStatusArchived = "archived"
)

// Show represents a bookable event that owns all advance paperwork.
// Timestamps and dates are stored as DB-format strings ("2006-01-02" for
// dates, "2006-01-02 15:04:05.000" UTC for timestamps).
//
// Fields:
//  ID              – primary key identifier.
//  Name            – show name, mirrored from the advance form's show_name.
//  ShowDate        – performance date (empty when not yet known).
//  ShowTime        – free-form performance time.
//  Venue           – venue name.
//  Status          – "active" or "archived".
//  AdvanceVersion  – export counter for the advance sheet PDF.
//  ScheduleVersion – export counter for the schedule PDF.
//  CreatedBy       – user who created the show (0 when unknown).
//  LastSavedBy     – user whose save last touched any form (0 when never saved).
//  LastSavedAt     – timestamp of that save (empty when never saved).
type Show struct {
	ID              int64  `json:"id"`               // shows.id
	Name            string `json:"name"`             // shows.name
	ShowDate        string `json:"show_date"`        // shows.show_date
	ShowTime        string `json:"show_time"`        // shows.show_time
	Venue           string `json:"venue"`            // shows.venue
	Status          string `json:"status"`           // shows.status
	AdvanceVersion  int    `json:"advance_version"`  // shows.advance_version
	ScheduleVersion int    `json:"schedule_version"` // shows.schedule_version
	CreatedBy       int64  `json:"created_by"`       // shows.created_by
	CreatedAt       string `json:"created_at"`       // shows.created_at
	UpdatedAt       string `json:"updated_at"`       // shows.updated_at
	LastSavedBy     int64  `json:"last_saved_by"`    // shows.last_saved_by
	LastSavedAt     string `json:"last_saved_at"`    // shows.last_saved_at
}
