package domain

type MatchStatus string

const (
	StatusWaiting   MatchStatus = "WAITING"
	StatusConnected MatchStatus = "CONNECTED"
)

type Partner struct {
	DisplayName string `json:"displayName"`
	ClientID    string `json:"clientId"`
}

// MatchOutcome is the last known result for a participant.
// RoomID and Partner are set only when Status is StatusConnected.
type MatchOutcome struct {
	Status        MatchStatus   `json:"status"`
	ParticipantID ParticipantID `json:"participantId,omitempty"`
	RoomID        RoomID        `json:"roomId,omitempty"`
	Partner       *Partner      `json:"partner,omitempty"`
}

// Waiting is also what callers get for ids nobody knows about.
func Waiting(id ParticipantID) MatchOutcome {
	return MatchOutcome{Status: StatusWaiting, ParticipantID: id}
}

func Connected(id ParticipantID, room RoomID, partner Partner) MatchOutcome {
	return MatchOutcome{Status: StatusConnected, ParticipantID: id, RoomID: room, Partner: &partner}
}
