// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values let handlers distinguish failure
// scenarios: ErrAccessDenied maps to 403 for users outside every granting
// group, ErrReadOnly to the structured {success:false} payload on write
// attempts by restricted users, and the not-found sentinels to 404.
package repository

import "errors"

// ErrAccessDenied is returned when the caller's groups grant no visibility
// into the referenced show.  No partial state is ever written first.
var ErrAccessDenied = errors.New("access denied")

// ErrReadOnly is returned on write attempts by users confined to
// restricted groups.  Reads are unaffected.
var ErrReadOnly = errors.New("read only")

// ErrShowNotFound indicates that a show was not located in the DB.
var ErrShowNotFound = errors.New("show not found")

// ErrEntryNotFound indicates a history entry does not exist or does not
// belong to the referenced show.
var ErrEntryNotFound = errors.New("history entry not found")

// ErrUserNotFound indicates that a user record was not located.
var ErrUserNotFound = errors.New("user not found")

// ErrGroupNotFound indicates that an access group was not located.
var ErrGroupNotFound = errors.New("group not found")

// ErrContactNotFound indicates that a contact record was not located.
var ErrContactNotFound = errors.New("contact not found")

// ErrAttachmentNotFound indicates an attachment does not exist or does
// not belong to the referenced show.
var ErrAttachmentNotFound = errors.New("attachment not found")
