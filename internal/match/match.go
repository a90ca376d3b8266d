// Package match computes compatibility scores between user profiles
// and the co-founder requirements attached to ideas.
package match

import (
	"math"
	"strings"

	"github.com/foundry-social/foundry/internal/models"
)

// Weights for the four partial scores. They sum to 100; the weighting
// itself is a product decision, not a domain law.
const (
	skillWeight        = 50
	roleWeight         = 30
	availabilityWeight = 10
	experienceWeight   = 10
)

// Result is the outcome of scoring a profile against an idea's
// co-founder requirements. It is derived on every view and never
// persisted.
type Result struct {
	Percentage        int      `json:"percentage"`
	MatchedSkills     []string `json:"matched_skills"`
	MatchedRoles      []string `json:"matched_roles"`
	AvailabilityMatch bool     `json:"availability_match"`
	ExperienceMatch   bool     `json:"experience_match"`
}

// Compute scores profile against req. It returns nil when the profile
// carries no usable signal (no skills and no desired roles); nil is a
// distinct outcome from a 0% match and must not be rendered as one.
//
// Skills weigh 50: the fraction of required skills the profile has,
// compared case-insensitively. Roles weigh 30: a required role counts
// as matched when the profile is looking for it, or when one of the
// profile's skills is a substring of the role name. Availability and
// experience weigh 10 each and are granted outright when the
// requirement side is empty (or "flexible"/"any" respectively);
// otherwise they require case-insensitive equality.
func Compute(profile *models.Profile, req models.CofounderRequirements) *Result {
	if profile == nil || !profile.HasMatchSignal() {
		return nil
	}

	matchedSkills := []string{}
	for _, needed := range req.SkillsNeeded {
		if containsFold(profile.Skills, needed) {
			matchedSkills = append(matchedSkills, needed)
		}
	}
	skillScore := 0.0
	if len(req.SkillsNeeded) > 0 {
		skillScore = float64(len(matchedSkills)) / float64(len(req.SkillsNeeded))
	}

	matchedRoles := []string{}
	for _, role := range req.RolesNeeded {
		if containsFold(profile.LookingFor, role) || skillOverlapsRole(profile.Skills, role) {
			matchedRoles = append(matchedRoles, role)
		}
	}
	roleScore := 0.0
	if len(req.RolesNeeded) > 0 {
		roleScore = math.Min(float64(len(matchedRoles))/float64(len(req.RolesNeeded)), 1)
	}

	availabilityMatch := req.TimeCommitment == "" ||
		strings.EqualFold(req.TimeCommitment, "flexible") ||
		strings.EqualFold(profile.Availability, req.TimeCommitment)

	experienceMatch := req.ExperienceLevel == "" ||
		strings.EqualFold(req.ExperienceLevel, "any") ||
		strings.EqualFold(profile.ExperienceLevel, req.ExperienceLevel)

	score := skillScore*skillWeight + roleScore*roleWeight
	if availabilityMatch {
		score += availabilityWeight
	}
	if experienceMatch {
		score += experienceWeight
	}

	percentage := int(math.Round(score))
	if percentage > 100 {
		percentage = 100
	}

	return &Result{
		Percentage:        percentage,
		MatchedSkills:     matchedSkills,
		MatchedRoles:      matchedRoles,
		AvailabilityMatch: availabilityMatch,
		ExperienceMatch:   experienceMatch,
	}
}

// containsFold reports whether any element of list equals s,
// comparing case-insensitively.
func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// skillOverlapsRole reports whether any skill is a case-insensitive
// substring of the role name, e.g. skill "Frontend" overlaps role
// "Frontend Developer".
func skillOverlapsRole(skills []string, role string) bool {
	lowerRole := strings.ToLower(role)
	for _, s := range skills {
		if s == "" {
			continue
		}
		if strings.Contains(lowerRole, strings.ToLower(s)) {
			return true
		}
	}
	return false
}
