// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidRole      = errors.New("invalid role")
	ErrDisplayNameEmpty = errors.New("displayName empty")
	ErrClientIDEmpty    = errors.New("clientId empty")
)

type ParticipantID string

// Role decides which queue a participant waits in.
type Role int

const (
	RoleSeeker Role = iota + 1
	RoleHelper
)

// ParseRole accepts the wire names. USER and VOLUNTEER are the names older
// mini-app builds still send.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SEEKER", "USER":
		return RoleSeeker, nil
	case "HELPER", "VOLUNTEER":
		return RoleHelper, nil
	}
	return 0, ErrInvalidRole
}

func (r Role) Opposite() Role {
	if r == RoleSeeker {
		return RoleHelper
	}
	return RoleSeeker
}

func (r Role) Valid() bool { return r == RoleSeeker || r == RoleHelper }

func (r Role) String() string {
	switch r {
	case RoleSeeker:
		return "SEEKER"
	case RoleHelper:
		return "HELPER"
	}
	return "UNKNOWN"
}

// Participant is a queued or matched actor. DisplayName and ClientID are
// opaque and only carried through to the partner.
type Participant struct {
	ID          ParticipantID
	Role        Role
	DisplayName string
	ClientID    string
	CreatedAt   time.Time
}

// ValidateIdentity checks caller supplied fields before they reach the queue.
// Only blank values are rejected; the content itself is never interpreted.
func ValidateIdentity(displayName, clientID string) error {
	if strings.TrimSpace(displayName) == "" {
		return ErrDisplayNameEmpty
	}
	if strings.TrimSpace(clientID) == "" {
		return ErrClientIDEmpty
	}
	return nil
}
