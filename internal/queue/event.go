// Message payloads exchanged over the message broker.

package queue

// ExportRequestedEvent is published when a user exports a show's advance
// packet. It carries enough information for downstream consumers to log,
// render, or notify without querying the primary database.
type ExportRequestedEvent struct {
	ExportID   int64  `json:"export_id"`
	ShowID     int64  `json:"show_id"`
	ShowName   string `json:"show_name"`
	ShowDate   string `json:"show_date"`
	ExportType string `json:"export_type"`
	Version    int    `json:"version"`
	Filename   string `json:"filename"`
	ExportedBy int64  `json:"exported_by"`
	Exporter   string `json:"exporter"`
	ExportedAt string `json:"exported_at"`
}
