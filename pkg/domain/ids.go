// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "helpapp/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a ContactID where a DispatchID is expected.
type (
	ContactID  uuid.UUID
	DispatchID uuid.UUID
	NoticeID   uuid.UUID
)

// DeviceID names the handset a token was issued to. It is free-form so that
// platform identifiers (Android ID, serial) can be used as-is.
type DeviceID string

// Constructors for freshly minted identifiers.

func NewContactID() ContactID   { return ContactID(uuid.New()) }
func NewDispatchID() DispatchID { return DispatchID(uuid.New()) }
func NewNoticeID() NoticeID     { return NoticeID(uuid.New()) }

// Parse functions - use at trust boundaries (handlers, CLI input).

func ParseContactID(s string) (ContactID, error) {
	id, err := parseUUID(s, "contact ID")
	return ContactID(id), err
}

func ParseDispatchID(s string) (DispatchID, error) {
	id, err := parseUUID(s, "dispatch ID")
	return DispatchID(id), err
}

func ParseDeviceID(s string) (DeviceID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "device ID cannot be empty")
	}
	return DeviceID(s), nil
}

// String methods - for logging and debugging.

func (id ContactID) String() string  { return uuid.UUID(id).String() }
func (id DispatchID) String() string { return uuid.UUID(id).String() }
func (id NoticeID) String() string   { return uuid.UUID(id).String() }
func (id DeviceID) String() string   { return string(id) }

// IsNil checks - used for service-layer validation.

func (id ContactID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id DispatchID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id NoticeID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id DeviceID) IsNil() bool   { return id == "" }

// MarshalText lets IDs render as plain UUID strings in JSON payloads.
func (id ContactID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id DispatchID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id NoticeID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }

// parseUUID is the shared validation logic. The nil UUID is rejected because
// no stored record is ever assigned it.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	if id == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return id, nil
}

// UnmarshalText parses IDs rendered by MarshalText.
func (id *ContactID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b), "contact ID")
	if err != nil {
		return err
	}
	*id = ContactID(u)
	return nil
}

func (id *DispatchID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b), "dispatch ID")
	if err != nil {
		return err
	}
	*id = DispatchID(u)
	return nil
}

func (id *NoticeID) UnmarshalText(b []byte) error {
	u, err := parseUUID(string(b), "notice ID")
	if err != nil {
		return err
	}
	*id = NoticeID(u)
	return nil
}
