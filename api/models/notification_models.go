package models

import (
	"encoding/json"
	"time"

	db "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/db/sqlc"
)

type NotificationResponse struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	Read      bool            `json:"read"`
	CreatedAt time.Time       `json:"created_at"`
}

func ToNotificationResponse(n *db.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	if n.Metadata.Valid {
		resp.Metadata = n.Metadata.RawMessage
	}
	return resp
}

func ToNotificationResponseCollection(notifications []db.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, ToNotificationResponse(&notifications[i]))
	}
	return responses
}
