package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// maxBindParams is the smaller of PostgreSQL's (65535) and SQLite's (32766)
// per-statement bind parameter limits.
const maxBindParams = 32766

// InsertIgnoreConflicts writes rows into table with one multi-row INSERT per
// chunk. Rows that violate a uniqueness constraint are skipped by the store
// instead of failing the statement. columns[0] must be the table's UUID key;
// the returned set holds the keys that were actually persisted, which is the
// only way to tell which submitted rows survived.
func InsertIgnoreConflicts(ctx context.Context, q sqlx.ExtContext, table string, columns []string, rows [][]any, chunkSize int) (map[uuid.UUID]struct{}, error) {
	persisted := make(map[uuid.UUID]struct{}, len(rows))
	err := insertChunks(ctx, q, table, columns, rows, chunkSize, func(id uuid.UUID) {
		persisted[id] = struct{}{}
	})
	if err != nil {
		return nil, err
	}
	return persisted, nil
}

// CountInserted is InsertIgnoreConflicts for tables whose first column is not
// unique on its own, such as join tables. It reports how many rows landed.
func CountInserted(ctx context.Context, q sqlx.ExtContext, table string, columns []string, rows [][]any, chunkSize int) (int, error) {
	n := 0
	err := insertChunks(ctx, q, table, columns, rows, chunkSize, func(uuid.UUID) { n++ })
	if err != nil {
		return 0, err
	}
	return n, nil
}

func insertChunks(ctx context.Context, q sqlx.ExtContext, table string, columns []string, rows [][]any, chunkSize int, onRow func(uuid.UUID)) error {
	if len(rows) == 0 {
		return nil
	}

	perChunk := maxBindParams / len(columns)
	if chunkSize > 0 && chunkSize < perChunk {
		perChunk = chunkSize
	}

	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
	head := fmt.Sprintf("INSERT INTO %s (%s) VALUES ", table, strings.Join(columns, ", "))
	tail := fmt.Sprintf(" ON CONFLICT DO NOTHING RETURNING %s", columns[0])

	for start := 0; start < len(rows); start += perChunk {
		end := min(start+perChunk, len(rows))
		chunk := rows[start:end]

		var sb strings.Builder
		sb.WriteString(head)
		args := make([]any, 0, len(chunk)*len(columns))
		for i, row := range chunk {
			if len(row) != len(columns) {
				return fmt.Errorf("insert %s: row %d has %d values, want %d", table, start+i, len(row), len(columns))
			}
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(tuple)
			args = append(args, row...)
		}
		sb.WriteString(tail)

		if err := collectKeys(ctx, q, q.Rebind(sb.String()), args, onRow); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

func collectKeys(ctx context.Context, q sqlx.ExtContext, query string, args []any, onRow func(uuid.UUID)) error {
	rows, err := q.QueryxContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return err
		}
		onRow(id)
	}
	return rows.Err()
}

// DeleteIn removes every row of table whose column matches one of ids.
func DeleteIn(ctx context.Context, q sqlx.ExtContext, table, column string, ids []uuid.UUID) (int64, error) {
	var total int64
	for start := 0; start < len(ids); start += maxBindParams {
		end := min(start+maxBindParams, len(ids))

		query, args, err := sqlx.In(fmt.Sprintf("DELETE FROM %s WHERE %s IN (?)", table, column), ids[start:end])
		if err != nil {
			return total, fmt.Errorf("delete %s: %w", table, err)
		}
		res, err := q.ExecContext(ctx, q.Rebind(query), args...)
		if err != nil {
			return total, fmt.Errorf("delete %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}
