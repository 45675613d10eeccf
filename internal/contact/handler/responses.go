package handler

import (
	"time"

	"helpapp/internal/contact/models"
)

type ContactResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Number    string    `json:"number"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

type ListResponse struct {
	Contacts []ContactResponse `json:"contacts"`
	Limit    int               `json:"limit"`
}

type ImportResponse struct {
	Imported []ContactResponse `json:"imported"`
	Rejected int               `json:"rejected"`
	Message  string            `json:"message,omitempty"`
}

func toResponse(c *models.Contact) ContactResponse {
	return ContactResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Number:    c.Number,
		Source:    c.Source.String(),
		CreatedAt: c.CreatedAt,
	}
}

func toResponses(contacts []*models.Contact) []ContactResponse {
	out := make([]ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, toResponse(c))
	}
	return out
}
