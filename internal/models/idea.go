package models

import "time"

// Idea represents a posted business idea. The co-founder requirement
// fields are only meaningful when LookingForCofounder is set.
type Idea struct {
	ID                       string    `json:"id"`
	UserID                   string    `json:"user_id"`
	Title                    string    `json:"title"`
	Problem                  string    `json:"problem"`
	Solution                 string    `json:"solution"`
	Tags                     []string  `json:"tags"`
	Category                 string    `json:"category"`
	Stage                    string    `json:"stage"`
	LookingForCofounder      bool      `json:"looking_for_cofounder"`
	CofounderSkillsNeeded    []string  `json:"cofounder_skills_needed"`
	CofounderRolesNeeded     []string  `json:"cofounder_roles_needed"`
	CofounderExperienceLevel string    `json:"cofounder_experience_level,omitempty"`
	CofounderTimeCommitment  string    `json:"cofounder_time_commitment,omitempty"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// Requirements returns the idea's co-founder requirements for match
// scoring.
func (i *Idea) Requirements() CofounderRequirements {
	return CofounderRequirements{
		SkillsNeeded:    i.CofounderSkillsNeeded,
		RolesNeeded:     i.CofounderRolesNeeded,
		ExperienceLevel: i.CofounderExperienceLevel,
		TimeCommitment:  i.CofounderTimeCommitment,
	}
}

// CofounderRequirements is the subset of an idea the match engine
// scores a profile against.
type CofounderRequirements struct {
	SkillsNeeded    []string
	RolesNeeded     []string
	ExperienceLevel string
	TimeCommitment  string
}
