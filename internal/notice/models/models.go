package models

import (
	"time"

	id "helpapp/pkg/domain"
)

// Kind separates blocking alerts from transient confirmations.
type Kind string

const (
	KindAlert   Kind = "alert"
	KindConfirm Kind = "confirm"
)

// Notice is one message shown to the user.
type Notice struct {
	ID        id.NoticeID `json:"id"`
	Kind      Kind        `json:"kind"`
	Message   string      `json:"message"`
	CreatedAt time.Time   `json:"created_at"`
}
