package models

// Party is a group of participants who share expenses.
type Party struct {
	// ID is the unique identifier for the party (UUID format).
	ID string

	// Name is the display name of the party (e.g., "Ski Trip", "Flatmates").
	Name string

	// Currency is the ISO 4217 code amounts of this party are expressed in.
	Currency string

	// Participants are the members of the party in the order they joined.
	Participants []Participant

	// CreatedAt is the Unix timestamp when the party was created.
	CreatedAt int64
}

// Participant is a member of a party.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	ID string

	// PartyID is the party this participant belongs to.
	PartyID string

	// Name is the display name, unique within the party.
	Name string
}

// ParticipantIDs returns the IDs of the party's participants in order.
func (p *Party) ParticipantIDs() []string {
	ids := make([]string, len(p.Participants))
	for i, participant := range p.Participants {
		ids[i] = participant.ID
	}
	return ids
}

// HasParticipant reports whether id is a participant of the party.
func (p *Party) HasParticipant(id string) bool {
	for _, participant := range p.Participants {
		if participant.ID == id {
			return true
		}
	}
	return false
}
