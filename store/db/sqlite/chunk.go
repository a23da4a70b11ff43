package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/careerlens/careerlens/server/rag"
	"github.com/careerlens/careerlens/store"
)

func (d *DB) CreateChunk(ctx context.Context, create *store.Chunk) (*store.Chunk, error) {
	stmt := `
		INSERT INTO chunk (id, record_kind, record_id, position, char_count, word_count, content, embedding, created_ts)
		VALUES (` + placeholders(9) + `)
	`

	var embedding any
	if create.Embedding != nil {
		encoded, err := rag.EncodeVectorJSON(create.Embedding)
		if err != nil {
			return nil, err
		}
		embedding = encoded
	}
	_, err := d.db.ExecContext(ctx, stmt,
		create.ID,
		create.RecordKind,
		create.RecordID,
		create.Position,
		create.CharCount,
		create.WordCount,
		create.Content,
		embedding,
		create.CreatedTs,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create chunk")
	}
	return create, nil
}

func (d *DB) ListChunks(ctx context.Context, find *store.FindChunk) ([]*store.Chunk, error) {
	where, args := chunkWhere(find)

	query := `
		SELECT id, record_kind, record_id, position, char_count, word_count, content, embedding, created_ts
		FROM chunk
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY record_kind, record_id, position
	`
	if find.Limit != nil {
		args = append(args, *find.Limit)
		query += " LIMIT " + placeholder(len(args))
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list chunks")
	}
	defer rows.Close()

	list := []*store.Chunk{}
	for rows.Next() {
		var chunk store.Chunk
		var rawEmbedding sql.NullString
		err := rows.Scan(
			&chunk.ID,
			&chunk.RecordKind,
			&chunk.RecordID,
			&chunk.Position,
			&chunk.CharCount,
			&chunk.WordCount,
			&chunk.Content,
			&rawEmbedding,
			&chunk.CreatedTs,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan chunk")
		}
		if rawEmbedding.Valid && rawEmbedding.String != "" {
			embedding, err := rag.DecodeVectorJSON(rawEmbedding.String, 0)
			if err != nil {
				return nil, errors.Wrap(err, "failed to parse chunk embedding")
			}
			chunk.Embedding = embedding
		}
		list = append(list, &chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) CountChunks(ctx context.Context, find *store.FindChunk) (int, error) {
	where, args := chunkWhere(find)

	query := `SELECT COUNT(*) FROM chunk WHERE ` + strings.Join(where, " AND ")

	var count int
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count chunks")
	}
	return count, nil
}

func (d *DB) UpdateChunkEmbedding(ctx context.Context, id string, embedding []float32) error {
	encoded, err := rag.EncodeVectorJSON(embedding)
	if err != nil {
		return err
	}

	stmt := `UPDATE chunk SET embedding = ` + placeholder(1) + ` WHERE id = ` + placeholder(2)
	result, err := d.db.ExecContext(ctx, stmt, encoded, id)
	if err != nil {
		return errors.Wrap(err, "failed to update chunk embedding")
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.Errorf("chunk %s not found", id)
	}
	return nil
}

func (d *DB) DeleteChunks(ctx context.Context, delete *store.DeleteChunk) error {
	stmt := `DELETE FROM chunk WHERE record_kind = ` + placeholder(1) + ` AND record_id = ` + placeholder(2)
	if _, err := d.db.ExecContext(ctx, stmt, delete.RecordKind, delete.RecordID); err != nil {
		return errors.Wrap(err, "failed to delete chunks")
	}
	return nil
}

func chunkWhere(find *store.FindChunk) ([]string, []any) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.RecordKind != nil {
		where, args = append(where, "record_kind = "+placeholder(len(args)+1)), append(args, *find.RecordKind)
	}
	if find.RecordID != nil {
		where, args = append(where, "record_id = "+placeholder(len(args)+1)), append(args, *find.RecordID)
	}
	if find.Embedded != nil {
		if *find.Embedded {
			where = append(where, "embedding IS NOT NULL")
		} else {
			where = append(where, "embedding IS NULL")
		}
	}
	return where, args
}
