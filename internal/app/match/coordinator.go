// Package match pairs seekers with helpers.
package match

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Helpline/internal/domain"
)

// DefaultTTL is how long an unmatched participant stays in its queue.
const DefaultTTL = 5 * time.Minute

// QueueStats is a point-in-time view of the coordinator.
type QueueStats struct {
	Seekers  int `json:"seekers"`
	Helpers  int `json:"helpers"`
	Outcomes int `json:"outcomes"`
}

// Coordinator owns both role queues and the outcome table. Every exported
// method runs the expiry sweep and its own work under one lock.
type Coordinator struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	newID    func() string
	queues   map[domain.Role][]*domain.Participant
	outcomes map[domain.ParticipantID]domain.MatchOutcome
}

type Option func(*Coordinator)

// WithTTL sets how long a participant may wait unmatched. A non-positive ttl
// keeps DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Coordinator) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithIDGenerator replaces uuid for participant and room ids.
func WithIDGenerator(gen func() string) Option {
	return func(c *Coordinator) { c.newID = gen }
}

func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		ttl:   DefaultTTL,
		now:   time.Now,
		newID: uuid.NewString,
		queues: map[domain.Role][]*domain.Participant{
			domain.RoleSeeker: nil,
			domain.RoleHelper: nil,
		},
		outcomes: make(map[domain.ParticipantID]domain.MatchOutcome),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Join pairs the caller with the longest waiting participant of the opposite
// role, or queues it when there is none.
func (c *Coordinator) Join(role domain.Role, displayName, clientID string) (domain.MatchOutcome, error) {
	if !role.Valid() {
		return domain.MatchOutcome{}, domain.ErrInvalidRole
	}
	if err := domain.ValidateIdentity(displayName, clientID); err != nil {
		return domain.MatchOutcome{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	c.sweepLocked(now)

	p := &domain.Participant{
		ID:          domain.ParticipantID(c.newID()),
		Role:        role,
		DisplayName: displayName,
		ClientID:    clientID,
		CreatedAt:   now,
	}

	if other, ok := c.popLocked(role.Opposite()); ok {
		room := domain.RoomID(c.newID())
		mine := domain.Connected(p.ID, room, domain.Partner{DisplayName: other.DisplayName, ClientID: other.ClientID})
		theirs := domain.Connected(other.ID, room, domain.Partner{DisplayName: p.DisplayName, ClientID: p.ClientID})
		c.outcomes[p.ID] = mine
		c.outcomes[other.ID] = theirs
		log.Info().
			Str("module", "app.match").
			Str("participant_id", string(p.ID)).
			Str("partner_id", string(other.ID)).
			Str("role", role.String()).
			Str("room_id", string(room)).
			Msg("matched")
		return cloneOutcome(mine), nil
	}

	c.queues[role] = append(c.queues[role], p)
	out := domain.Waiting(p.ID)
	c.outcomes[p.ID] = out
	log.Info().
		Str("module", "app.match").
		Str("participant_id", string(p.ID)).
		Str("role", role.String()).
		Int("queued", len(c.queues[role])).
		Msg("queued")
	return out, nil
}

// Poll returns the stored outcome. Unknown ids (never joined, left or
// expired) look exactly like a participant still waiting.
func (c *Coordinator) Poll(id domain.ParticipantID) domain.MatchOutcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked(c.now())

	out, ok := c.outcomes[id]
	if !ok {
		return domain.Waiting(id)
	}
	return cloneOutcome(out)
}

// Leave forgets the participant. Absent ids are a no-op.
func (c *Coordinator) Leave(id domain.ParticipantID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked(c.now())

	delete(c.outcomes, id)
	removed := false
	for role, q := range c.queues {
		var ok bool
		c.queues[role], ok = without(q, id)
		removed = removed || ok
	}
	log.Debug().Str("module", "app.match").Str("participant_id", string(id)).Bool("dequeued", removed).Msg("leave")
}

func (c *Coordinator) Stats() QueueStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked(c.now())
	return QueueStats{
		Seekers:  len(c.queues[domain.RoleSeeker]),
		Helpers:  len(c.queues[domain.RoleHelper]),
		Outcomes: len(c.outcomes),
	}
}

func (c *Coordinator) popLocked(role domain.Role) (*domain.Participant, bool) {
	q := c.queues[role]
	if len(q) == 0 {
		return nil, false
	}
	head := q[0]
	q[0] = nil
	c.queues[role] = q[1:]
	return head, true
}

// sweepLocked drops queue entries older than the TTL together with their
// WAITING outcome. Callers must hold c.mu.
func (c *Coordinator) sweepLocked(now time.Time) {
	threshold := now.Add(-c.ttl)
	for role, q := range c.queues {
		kept := q[:0]
		for _, p := range q {
			if p.CreatedAt.Before(threshold) {
				delete(c.outcomes, p.ID)
				log.Info().Str("module", "app.match").Str("participant_id", string(p.ID)).Str("role", role.String()).Msg("expired")
				continue
			}
			kept = append(kept, p)
		}
		for i := len(kept); i < len(q); i++ {
			q[i] = nil
		}
		c.queues[role] = kept
	}
}

func without(q []*domain.Participant, id domain.ParticipantID) ([]*domain.Participant, bool) {
	for i, p := range q {
		if p.ID == id {
			copy(q[i:], q[i+1:])
			q[len(q)-1] = nil
			return q[:len(q)-1], true
		}
	}
	return q, false
}

func cloneOutcome(out domain.MatchOutcome) domain.MatchOutcome {
	if out.Partner != nil {
		p := *out.Partner
		out.Partner = &p
	}
	return out
}
