package models

import (
	"strings"
	"time"

	id "helpapp/pkg/domain"
	dErrors "helpapp/pkg/domain-errors"
	"helpapp/pkg/validation"
)

// MaxContacts is the number of emergency contacts the app holds.
const MaxContacts = 3

// LimitReachedMessage is shown to the user when a fourth contact is refused.
const LimitReachedMessage = "Maximum Contact Limit Reached!"

// Source records how a contact entered the list.
type Source string

const (
	SourceManual Source = "manual"
	SourceImport Source = "import"
)

func (s Source) IsValid() bool {
	return s == SourceManual || s == SourceImport
}

func (s Source) String() string { return string(s) }

// Contact is one emergency recipient. Contacts are created and deleted, never edited.
type Contact struct {
	ID        id.ContactID
	Name      string
	Number    string
	Source    Source
	CreatedAt time.Time
}

// Entry is the user-supplied part of a contact.
type Entry struct {
	Name   string
	Number string
}

// NewContact builds a contact from an entry, rejecting blank names and
// numbers that cannot be dialled.
func NewContact(entry Entry, source Source, now time.Time) (*Contact, error) {
	name := strings.TrimSpace(entry.Name)
	number := strings.TrimSpace(entry.Number)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "name is required")
	}
	if len(name) > validation.MaxNameLength {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "name is too long")
	}
	if !validation.IsPhoneNumber(number) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "number must be a valid phone number")
	}
	if !source.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid contact source")
	}
	return &Contact{
		ID:        id.NewContactID(),
		Name:      name,
		Number:    number,
		Source:    source,
		CreatedAt: now,
	}, nil
}

// ImportResult reports how many picked contacts were stored.
type ImportResult struct {
	Added    []*Contact
	Rejected int
}
