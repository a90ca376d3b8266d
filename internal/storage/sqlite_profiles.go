package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/foundry-social/foundry/internal/models"
)

type sqliteProfileRepo struct {
	db *sql.DB
}

func (r *sqliteProfileRepo) Upsert(ctx context.Context, profile *models.Profile) error {
	skillsJSON, err := json.Marshal(emptyIfNil(profile.Skills))
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}
	lookingForJSON, err := json.Marshal(emptyIfNil(profile.LookingFor))
	if err != nil {
		return fmt.Errorf("marshal looking_for: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, skills_json, looking_for_json, availability, experience_level, bio, seeking_cofounder, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			skills_json = excluded.skills_json,
			looking_for_json = excluded.looking_for_json,
			availability = excluded.availability,
			experience_level = excluded.experience_level,
			bio = excluded.bio,
			seeking_cofounder = excluded.seeking_cofounder,
			updated_at = excluded.updated_at`,
		profile.UserID, string(skillsJSON), string(lookingForJSON),
		nullString(profile.Availability), nullString(profile.ExperienceLevel),
		nullString(profile.Bio), boolToInt(profile.SeekingCofounder),
		profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (r *sqliteProfileRepo) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, skills_json, looking_for_json, availability, experience_level, bio, seeking_cofounder, created_at, updated_at
		FROM profiles WHERE user_id = ?`, userID)

	var p models.Profile
	var skillsJSON, lookingForJSON string
	var availability, experienceLevel, bio sql.NullString
	var seekingCofounder int

	err := row.Scan(&p.UserID, &skillsJSON, &lookingForJSON, &availability,
		&experienceLevel, &bio, &seekingCofounder, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	if err := json.Unmarshal([]byte(skillsJSON), &p.Skills); err != nil {
		return nil, fmt.Errorf("unmarshal skills: %w", err)
	}
	if err := json.Unmarshal([]byte(lookingForJSON), &p.LookingFor); err != nil {
		return nil, fmt.Errorf("unmarshal looking_for: %w", err)
	}
	p.Availability = availability.String
	p.ExperienceLevel = experienceLevel.String
	p.Bio = bio.String
	p.SeekingCofounder = seekingCofounder != 0

	return &p, nil
}

// emptyIfNil keeps JSON columns as [] rather than null.
func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
