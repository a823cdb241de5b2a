package repository

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/hr-bulk-import/internal/common"
	"github.com/joseph-ayodele/hr-bulk-import/internal/entity"
)

// InsertRow writes a single auto-committed row and returns its generated id.
// Postgres reads the id back with RETURNING; MySQL and SQLite report it
// through LastInsertId. A failed write is either common.ErrRowRejected or
// common.ErrUnavailable.
func (s *Store) InsertRow(ctx context.Context, table string, row entity.Row) (int64, error) {
	if len(row.Columns) == 0 {
		return 0, fmt.Errorf("insert into %s: no columns: %w", table, common.Rejected(common.ErrInvalidInput))
	}
	ins := entsql.Dialect(s.dialect).
		Insert(table).
		Columns(row.Columns...).
		Values(row.Values...)

	if s.dialect == dialect.Postgres {
		query, args := ins.Returning(primaryKey(table)).Query()
		var id int64
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			s.logger.Debug("insert failed", "table", table, "err", err)
			return 0, classifyInsert(err)
		}
		return id, nil
	}

	query, args := ins.Query()
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		s.logger.Debug("insert failed", "table", table, "err", err)
		return 0, classifyInsert(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, common.Unavailable(err)
	}
	return id, nil
}
