package repository

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/hr-bulk-import/internal/common"
)

// FetchTable reads every row of a lookup table. When the named columns are
// rejected (renamed or missing) it falls back to SELECT *.
func (s *Store) FetchTable(ctx context.Context, table string, columns ...string) ([]map[string]any, error) {
	start := time.Now()
	rows, err := s.selectRows(ctx, table, columns)
	if err != nil && len(columns) > 0 && !common.IsInfrastructure(err) {
		s.logger.Warn("reference.select.fallback", "table", table, "columns", columns, "err", err)
		rows, err = s.selectRows(ctx, table, nil)
	}
	if err != nil {
		s.logger.Error("reference.select.failed", "table", table, "err", err)
		return nil, fmt.Errorf("fetch %s: %w", table, err)
	}
	s.logger.Debug("reference.select.ok", "table", table, "rows", len(rows), "elapsed_ms", time.Since(start).Milliseconds())
	return rows, nil
}

func (s *Store) selectRows(ctx context.Context, table string, columns []string) ([]map[string]any, error) {
	b := entsql.Dialect(s.dialect)
	query, args := b.Select(columns...).From(b.Table(table)).Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, classify(err)
	}
	var out []map[string]any
	for rows.Next() {
		vals := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, classify(err)
		}
		m := make(map[string]any, len(names))
		for i, n := range names {
			m[n] = scanned(vals[i])
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// scanned converts driver byte slices into strings and timestamps into
// ISO-8601 text.
func scanned(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return v
	}
}
