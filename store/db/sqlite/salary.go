package sqlite

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/careerlens/careerlens/store"
)

func (d *DB) CreateSalaryObservation(ctx context.Context, create *store.SalaryObservation) (*store.SalaryObservation, error) {
	stmt := `
		INSERT INTO salary_observation (uid, created_ts, job_title, raw_location, city, country, market, experience_years, experience_level, amount, estimated_min, estimated_max, status)
		VALUES (` + placeholders(13) + `)
	`
	result, err := d.db.ExecContext(ctx, stmt,
		create.UID,
		create.CreatedTs,
		create.JobTitle,
		create.RawLocation,
		create.City,
		create.Country,
		create.Market,
		create.ExperienceYears,
		create.ExperienceLevel,
		create.Amount,
		create.EstimatedMin,
		create.EstimatedMax,
		create.Status,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create salary observation")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get salary observation id")
	}
	create.ID = int32(id)
	return create, nil
}

func (d *DB) ListSalaryObservations(ctx context.Context, find *store.FindSalaryObservation) ([]*store.SalaryObservation, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.JobTitle != nil {
		where, args = append(where, "LOWER(job_title) = LOWER("+placeholder(len(args)+1)+")"), append(args, *find.JobTitle)
	}
	if find.City != nil {
		where, args = append(where, "city = "+placeholder(len(args)+1)), append(args, *find.City)
	}
	if find.Country != nil {
		where, args = append(where, "country = "+placeholder(len(args)+1)), append(args, *find.Country)
	}
	if find.Market != nil {
		where, args = append(where, "market = "+placeholder(len(args)+1)), append(args, *find.Market)
	}
	if find.Status != nil {
		where, args = append(where, "status = "+placeholder(len(args)+1)), append(args, *find.Status)
	}

	query := `
		SELECT id, uid, created_ts, job_title, raw_location, city, country, market, experience_years, experience_level, amount, estimated_min, estimated_max, status
		FROM salary_observation
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC
	`
	if find.Limit != nil {
		args = append(args, *find.Limit)
		query += " LIMIT " + placeholder(len(args))
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list salary observations")
	}
	defer rows.Close()

	list := []*store.SalaryObservation{}
	for rows.Next() {
		var obs store.SalaryObservation
		err := rows.Scan(
			&obs.ID,
			&obs.UID,
			&obs.CreatedTs,
			&obs.JobTitle,
			&obs.RawLocation,
			&obs.City,
			&obs.Country,
			&obs.Market,
			&obs.ExperienceYears,
			&obs.ExperienceLevel,
			&obs.Amount,
			&obs.EstimatedMin,
			&obs.EstimatedMax,
			&obs.Status,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan salary observation")
		}
		list = append(list, &obs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
