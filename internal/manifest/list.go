// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/pukimd/pkg/types"
)

// ListOptions filters the records returned by List. Zero values match
// everything.
type ListOptions struct {
	// Status keeps only records with this outcome.
	Status types.Status

	// Page keeps only records whose page name contains this substring.
	Page string

	// Limit caps the number of records (0 = no limit).
	Limit int
}

// IsEmpty reports whether no filter is set.
func (o ListOptions) IsEmpty() bool {
	return o.Status == "" && o.Page == ""
}

// List returns the recorded conversions matching opts, ordered by page name
// and then source path.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]types.Record, error) {
	var (
		query strings.Builder
		where []string
		args  []any
	)

	query.WriteString(`SELECT source, page, output, encoding, source_mod_time, status, converted_at, error FROM pages`)

	if opts.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(opts.Status))
	}
	if opts.Page != "" {
		where = append(where, `page LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(opts.Page)+"%")
	}
	if len(where) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(where, " AND "))
	}

	query.WriteString(" ORDER BY page, source")
	if opts.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying manifest: %w", err)
	}
	defer rows.Close()

	var records []types.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return records, nil
}

// Counts returns the number of records per status.
func (s *Store) Counts(ctx context.Context) (map[types.Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, count(*) FROM pages GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting records: %w", err)
	}
	defer rows.Close()

	counts := make(map[types.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[types.Status(status)] = n
	}
	return counts, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
