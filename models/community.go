package models

import "time"

// CommunityKind classifies a persisted community entry.
type CommunityKind string

const (
	// CommunityKindTarget is a subreddit whose comment stream is monitored.
	CommunityKindTarget CommunityKind = "target"
	// CommunityKindIgnored is a subreddit the bot withdrew from (negative
	// reception); never re-targeted automatically.
	CommunityKindIgnored CommunityKind = "ignored"
	// CommunityKindBanned is a subreddit the bot is banned from. Seeded by
	// operators, consulted by discovery.
	CommunityKindBanned CommunityKind = "banned"
)

// Community is one persisted community-set entry.
type Community struct {
	ID        string        `json:"id"         db:"id"`
	Name      string        `json:"name"       db:"name"`
	Kind      CommunityKind `json:"kind"       db:"kind"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

// CommunitySnapshot is an immutable copy of the three community sets,
// handed to readers so the hot classification path never takes the
// owner's lock.
type CommunitySnapshot struct {
	Targets []string `json:"targets"`
	Ignored []string `json:"ignored"`
	Banned  []string `json:"banned"`
}

// HasTarget reports whether name is in the snapshot's target set.
func (s CommunitySnapshot) HasTarget(name string) bool {
	return containsName(s.Targets, name)
}

// HasIgnored reports whether name is in the snapshot's ignored set.
func (s CommunitySnapshot) HasIgnored(name string) bool {
	return containsName(s.Ignored, name)
}

// HasBanned reports whether name is in the snapshot's banned set.
func (s CommunitySnapshot) HasBanned(name string) bool {
	return containsName(s.Banned, name)
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
