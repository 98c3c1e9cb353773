// Package timestamp is the opaque-token timestamp collaborator spec §1
// assumes: "Timestamp formatting — assumed to return a fixed textual
// form." Commit codec treats the result as an opaque string; only this
// package knows its shape.
package timestamp

import (
	"fmt"
	"time"
)

// Now renders the current time as "<unix-seconds> <zone-offset>", the
// same two-field shape the teacher's commit encoder writes inline
// (e.g. "1700000000 +0000"). Kept as a single collaborator so a future
// change to the textual form touches one file.
func Now() string {
	return Format(time.Now())
}

// Format renders t in the fixed textual form.
func Format(t time.Time) string {
	_, offset := t.Zone()
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	hours := offset / 3600
	mins := (offset % 3600) / 60
	return fmt.Sprintf("%d %s%02d%02d", t.Unix(), sign, hours, mins)
}
