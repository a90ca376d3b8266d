package models

import "time"

// Profile holds the co-founder matching attributes a user fills in
// during onboarding. It is keyed by the owning user's ID.
type Profile struct {
	UserID           string    `json:"user_id"`
	Skills           []string  `json:"skills"`
	LookingFor       []string  `json:"looking_for"`
	Availability     string    `json:"availability,omitempty"`
	ExperienceLevel  string    `json:"experience_level,omitempty"`
	Bio              string    `json:"bio,omitempty"`
	SeekingCofounder bool      `json:"seeking_cofounder"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// HasMatchSignal reports whether the profile carries any data the
// match engine can score. A profile without skills and without
// desired roles produces no match at all, which is distinct from a
// 0% match.
func (p *Profile) HasMatchSignal() bool {
	return len(p.Skills) > 0 || len(p.LookingFor) > 0
}
