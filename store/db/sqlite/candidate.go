package sqlite

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/careerlens/careerlens/store"
)

func (d *DB) CreateCandidateProfile(ctx context.Context, create *store.CandidateProfile) (*store.CandidateProfile, error) {
	skills, err := json.Marshal(create.Skills)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal skills")
	}

	stmt := `
		INSERT INTO candidate_profile (uid, creator_id, created_ts, updated_ts, full_name, title, company, location, experience_years, skills, summary)
		VALUES (` + placeholders(11) + `)
	`
	result, err := d.db.ExecContext(ctx, stmt,
		create.UID,
		create.CreatorID,
		create.CreatedTs,
		create.UpdatedTs,
		create.FullName,
		create.Title,
		create.Company,
		create.Location,
		create.ExperienceYears,
		string(skills),
		create.Summary,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create candidate profile")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get candidate profile id")
	}
	create.ID = int32(id)
	return create, nil
}

func (d *DB) ListCandidateProfiles(ctx context.Context, find *store.FindCandidateProfile) ([]*store.CandidateProfile, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.CreatorID != nil {
		where, args = append(where, "creator_id = "+placeholder(len(args)+1)), append(args, *find.CreatorID)
	}

	query := `
		SELECT id, uid, creator_id, created_ts, updated_ts, full_name, title, company, location, experience_years, skills, summary
		FROM candidate_profile
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC
	`
	if find.Limit != nil {
		args = append(args, *find.Limit)
		query += " LIMIT " + placeholder(len(args))
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list candidate profiles")
	}
	defer rows.Close()

	list := []*store.CandidateProfile{}
	for rows.Next() {
		var p store.CandidateProfile
		var skills string
		err := rows.Scan(
			&p.ID,
			&p.UID,
			&p.CreatorID,
			&p.CreatedTs,
			&p.UpdatedTs,
			&p.FullName,
			&p.Title,
			&p.Company,
			&p.Location,
			&p.ExperienceYears,
			&skills,
			&p.Summary,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan candidate profile")
		}
		if skills != "" {
			if err := json.Unmarshal([]byte(skills), &p.Skills); err != nil {
				return nil, errors.Wrap(err, "failed to unmarshal skills")
			}
		}
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
