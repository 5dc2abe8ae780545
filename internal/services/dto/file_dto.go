package dto

import "time"

// ClosureFileView is one deliverable in a project's closure-file listing.
type ClosureFileView struct {
	ID           uint      `json:"id"`
	Filename     string    `json:"filename"`
	Version      int       `json:"version"`
	Status       string    `json:"status"`
	UploaderID   uint      `json:"uploader_id"`
	UploaderName string    `json:"uploader_name"`
	CreatedAt    time.Time `json:"created_at"`
}
