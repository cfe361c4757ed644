package model

import "time"

// Transcription is a single saved speech-to-text result.
//
// A record belongs to exactly one owner and is never updated after
// creation; it is only listed or deleted.
type Transcription struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	OwnerID   string    `json:"ownerId"`
	MimeType  string    `json:"mimeType"`
	CreatedAt time.Time `json:"createdAt"`
}
