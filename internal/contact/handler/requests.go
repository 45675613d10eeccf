package handler

import (
	"strings"

	"helpapp/internal/contact/models"
	"helpapp/pkg/validation"
)

// AddContactRequest is the body of POST /contacts.
type AddContactRequest struct {
	Name   string `json:"name" validate:"required,notblank,max=100"`
	Number string `json:"number" validate:"required,phone"`
}

func (r *AddContactRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Number = strings.TrimSpace(r.Number)
}

func (r *AddContactRequest) Validate() error {
	return validation.Validate(r)
}

func (r *AddContactRequest) Entry() models.Entry {
	return models.Entry{Name: r.Name, Number: r.Number}
}

// ImportContactsRequest carries contacts picked from the device address book.
type ImportContactsRequest struct {
	Contacts []AddContactRequest `json:"contacts" validate:"required,min=1,max=10,dive"`
}

func (r *ImportContactsRequest) Normalize() {
	for i := range r.Contacts {
		r.Contacts[i].Normalize()
	}
}

func (r *ImportContactsRequest) Validate() error {
	return validation.Validate(r)
}

func (r *ImportContactsRequest) Entries() []models.Entry {
	entries := make([]models.Entry, 0, len(r.Contacts))
	for i := range r.Contacts {
		entries = append(entries, r.Contacts[i].Entry())
	}
	return entries
}
