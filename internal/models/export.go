package models

import (
	"fmt"
	"time"
)

type ExportUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

// ExportDocument is the portable snapshot handed to the user. It is built
// once per request and never stored server-side.
type ExportDocument struct {
	User     ExportUser    `json:"user"`
	Profiles []UserProfile `json:"profiles"`
}

func ExportFilename(source string, at time.Time) string {
	return fmt.Sprintf("%s_export_%d.json", source, at.UnixMilli())
}
