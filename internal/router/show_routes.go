package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ShowSysDan/ShowAdvance/internal/handler"
	"github.com/ShowSysDan/ShowAdvance/internal/middleware"
)

// ShowHandlers bundles the handlers mounted under /v1 for authenticated
// venue staff.
type ShowHandlers struct {
	Shows       *handler.ShowHandler
	Forms       *handler.FormHandler
	History     *handler.HistoryHandler
	Presence    *handler.PresenceHandler
	Comments    *handler.CommentHandler
	Attachments *handler.AttachmentHandler
	Exports     *handler.ExportHandler
	Contacts    *handler.ContactHandler
}

// RegisterShows registers every show-scoped endpoint plus the contact
// directory.  pollLimit is applied to the polling endpoints only;
// contactCache wraps the read side of the contact directory.
func RegisterShows(e *echo.Echo, h ShowHandlers, jwtSecret string, pollLimit, contactCache echo.MiddlewareFunc) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	g.GET("/shows", h.Shows.List)
	g.POST("/shows", h.Shows.Create)
	g.GET("/shows/:id", h.Shows.Get)
	g.POST("/shows/:id/archive", h.Shows.Archive)
	g.POST("/shows/:id/restore", h.Shows.Restore)

	g.POST("/shows/:id/save/advance", h.Forms.SaveAdvance)
	g.POST("/shows/:id/save/schedule", h.Forms.SaveSchedule)
	g.POST("/shows/:id/save/postnotes", h.Forms.SavePostNotes)

	g.GET("/shows/:id/history/:form_type", h.History.List)
	g.GET("/shows/:id/history/entry/:entry_id", h.History.Snapshot)
	g.POST("/shows/:id/history/entry/:entry_id/restore", h.History.Restore)

	// The polling pair carries the rate limiter: a stuck client tab can
	// hammer these two paths far faster than any human edits forms.
	g.GET("/shows/:id/sync/advance", h.Presence.Sync, pollLimit)
	g.POST("/shows/:id/heartbeat", h.Presence.Heartbeat, pollLimit)
	g.POST("/shows/:id/leave", h.Presence.Leave)

	g.GET("/shows/:id/comments", h.Comments.List)
	g.POST("/shows/:id/comments", h.Comments.Create)
	g.DELETE("/shows/:id/comments/:comment_id", h.Comments.Delete)

	g.GET("/shows/:id/attachments", h.Attachments.List)
	g.POST("/shows/:id/attachments", h.Attachments.Upload)
	g.GET("/shows/:id/attachments/:attachment_id", h.Attachments.Download)
	g.DELETE("/shows/:id/attachments/:attachment_id", h.Attachments.Delete)

	g.POST("/shows/:id/export/:form_type", h.Exports.Export)

	g.GET("/contacts", h.Contacts.List, contactCache)
	g.POST("/contacts", h.Contacts.Create)
	g.PUT("/contacts/:id", h.Contacts.Update)
	g.DELETE("/contacts/:id", h.Contacts.Delete)
}
