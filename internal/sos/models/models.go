package models

import (
	"strconv"
	"time"

	id "helpapp/pkg/domain"
)

// Origin says what started a dispatch. It decides whether the user is
// alerted about missing permissions and shown a confirmation.
type Origin string

const (
	OriginButton Origin = "button"
	OriginSignal Origin = "signal"
)

func (o Origin) String() string { return string(o) }

// SignalSendSOS is the only tag on the trigger bus that starts a dispatch.
const SignalSendSOS = "sendSOS"

// User-facing texts.
const (
	NoLocationMessage = "Hi, I am in an emergency! GPS was turned off, could not provide location. Kindly contact Authorities"
	LocationPrefix    = "Hi, I am in an emergency! This is my location "
	MapURLPrefix      = "http://maps.google.com/?q="
	PermissionAlert   = "Permissions are not granted. Kindly provide SMS and Location Access Permissions for the app to function by going to the Settings."
	SentConfirmation  = "SMS Sent"
)

// Location is a resolved position.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// MapURL renders the position as a maps link, using the shortest decimal
// form of each coordinate (12.34, not 12.340000).
func (l Location) MapURL() string {
	return MapURLPrefix +
		strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," +
		strconv.FormatFloat(l.Lon, 'f', -1, 64)
}

// MessageFor returns the SMS body for a dispatch: the location text when a
// position was resolved, the no-location text otherwise.
func MessageFor(loc *Location) string {
	if loc == nil {
		return NoLocationMessage
	}
	return LocationPrefix + loc.MapURL()
}

// Branch names which SMS body was used.
type Branch string

const (
	BranchLocation   Branch = "location"
	BranchNoLocation Branch = "no_location"
)

// Outcome is how a dispatch ended.
type Outcome string

const (
	OutcomeSent             Outcome = "sent"
	OutcomePermissionDenied Outcome = "permission_denied"
)

// Permission names a capability that stopped a dispatch.
type Permission string

const (
	PermissionLocation Permission = "location"
	PermissionSMS      Permission = "sms"
)

// Report describes one dispatch.
type Report struct {
	DispatchID id.DispatchID `json:"dispatch_id"`
	Origin     Origin        `json:"origin"`
	Outcome    Outcome       `json:"outcome"`
	Denied     Permission    `json:"denied_permission,omitempty"`
	Branch     Branch        `json:"branch,omitempty"`
	Location   *Location     `json:"location,omitempty"`
	Body       string        `json:"body,omitempty"`
	Recipients int           `json:"recipients"`
	Sent       int           `json:"sent"`
	Failed     int           `json:"failed"`
	Alerted    bool          `json:"alerted"`
	Confirmed  bool          `json:"confirmed"`
	Coalesced  bool          `json:"coalesced,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
}
