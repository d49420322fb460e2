package domain

import "time"

// DonationEvent is a blood donation drive scheduled by a hospital.
type DonationEvent struct {
	ID                 string    `json:"-"`
	Hospital           string    `json:"hospital"`
	EventName          string    `json:"eventName"`
	EventDate          string    `json:"eventDate"`
	Location           string    `json:"location"`
	RequiredBloodTypes []string  `json:"requiredBloodTypes"`
	CreatedAt          time.Time `json:"createdAt"`
}
