package model

// Comment is a free-form note attached to a show's discussion stream.
type Comment struct {
	ID         int64  `json:"id"`          // show_comments.id
	ShowID     int64  `json:"show_id"`     // show_comments.show_id
	UserID     int64  `json:"user_id"`     // show_comments.user_id
	AuthorName string `json:"author_name"` // joined from users.display_name
	Body       string `json:"body"`        // show_comments.body
	CreatedAt  string `json:"created_at"`  // show_comments.created_at
}

// Attachment is a file stored against a show.  Data is only populated
// when a single attachment is fetched for download; list queries skip it.
type Attachment struct {
	ID         int64  `json:"id"`          // show_attachments.id
	ShowID     int64  `json:"show_id"`     // show_attachments.show_id
	UploadedBy int64  `json:"uploaded_by"` // show_attachments.uploaded_by
	Filename   string `json:"filename"`    // show_attachments.filename
	MimeType   string `json:"mime_type"`   // show_attachments.mime_type
	FileSize   int64  `json:"file_size"`   // show_attachments.file_size
	CreatedAt  string `json:"created_at"`  // show_attachments.created_at
	Data       []byte `json:"-"`           // show_attachments.file_data
}

// ExportEntry records one PDF export of a show's advance sheet or
// schedule, with the version counter at the time of export.
type ExportEntry struct {
	ID         int64  `json:"id"`          // export_log.id
	ShowID     int64  `json:"show_id"`     // export_log.show_id
	ExportType string `json:"export_type"` // export_log.export_type
	Version    int    `json:"version"`     // export_log.version
	ExportedBy int64  `json:"exported_by"` // export_log.exported_by
	Exporter   string `json:"exporter"`    // joined from users.display_name
	ExportedAt string `json:"exported_at"` // export_log.exported_at
	Filename   string `json:"filename"`    // export_log.filename
}
