package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/foundry-social/foundry/internal/models"
)

type sqliteIdeaRepo struct {
	db *sql.DB
}

const ideaColumns = `id, user_id, title, problem, solution, tags_json, category, stage,
	looking_for_cofounder, cofounder_skills_json, cofounder_roles_json,
	cofounder_experience_level, cofounder_time_commitment, created_at, updated_at`

func (r *sqliteIdeaRepo) Create(ctx context.Context, idea *models.Idea) error {
	tagsJSON, err := json.Marshal(emptyIfNil(idea.Tags))
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	skillsJSON, err := json.Marshal(emptyIfNil(idea.CofounderSkillsNeeded))
	if err != nil {
		return fmt.Errorf("marshal cofounder skills: %w", err)
	}
	rolesJSON, err := json.Marshal(emptyIfNil(idea.CofounderRolesNeeded))
	if err != nil {
		return fmt.Errorf("marshal cofounder roles: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO ideas (id, user_id, title, problem, solution, tags_json, category, stage,
			looking_for_cofounder, cofounder_skills_json, cofounder_roles_json,
			cofounder_experience_level, cofounder_time_commitment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		idea.ID, idea.UserID, idea.Title, idea.Problem, idea.Solution,
		string(tagsJSON), idea.Category, idea.Stage,
		boolToInt(idea.LookingForCofounder), string(skillsJSON), string(rolesJSON),
		nullString(idea.CofounderExperienceLevel), nullString(idea.CofounderTimeCommitment),
		idea.CreatedAt, idea.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create idea: %w", err)
	}
	return nil
}

func (r *sqliteIdeaRepo) GetByID(ctx context.Context, id string) (*models.Idea, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+ideaColumns+` FROM ideas WHERE id = ?`, id)

	idea, err := scanIdeaRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get idea: %w", err)
	}
	return idea, nil
}

func (r *sqliteIdeaRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.Idea, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+ideaColumns+` FROM ideas WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("get ideas by ids: %w", err)
	}
	defer rows.Close()

	return scanIdeas(rows)
}

func (r *sqliteIdeaRepo) ListByUser(ctx context.Context, userID string) ([]*models.Idea, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+ideaColumns+` FROM ideas WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	defer rows.Close()

	return scanIdeas(rows)
}

func scanIdeas(rows *sql.Rows) ([]*models.Idea, error) {
	var ideas []*models.Idea
	for rows.Next() {
		idea, err := scanIdeaRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan idea row: %w", err)
		}
		ideas = append(ideas, idea)
	}
	return ideas, rows.Err()
}

func scanIdeaRow(scan func(dest ...any) error) (*models.Idea, error) {
	var i models.Idea
	var tagsJSON, skillsJSON, rolesJSON string
	var experienceLevel, timeCommitment sql.NullString
	var lookingForCofounder int

	err := scan(&i.ID, &i.UserID, &i.Title, &i.Problem, &i.Solution,
		&tagsJSON, &i.Category, &i.Stage,
		&lookingForCofounder, &skillsJSON, &rolesJSON,
		&experienceLevel, &timeCommitment, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tagsJSON), &i.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	if err := json.Unmarshal([]byte(skillsJSON), &i.CofounderSkillsNeeded); err != nil {
		return nil, fmt.Errorf("unmarshal cofounder skills: %w", err)
	}
	if err := json.Unmarshal([]byte(rolesJSON), &i.CofounderRolesNeeded); err != nil {
		return nil, fmt.Errorf("unmarshal cofounder roles: %w", err)
	}
	i.LookingForCofounder = lookingForCofounder != 0
	i.CofounderExperienceLevel = experienceLevel.String
	i.CofounderTimeCommitment = timeCommitment.String

	return &i, nil
}
