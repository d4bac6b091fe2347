package controller

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/chatkit-dev/sam/domain/entities"
)

// sqlStrategy runs the configured query over the named SqlConnection.
// The connection record is resolved through the resource store at bind
// time; plugin parameters map to named query arguments.
type sqlStrategy struct {
	c  *PluginController
	db *sql.DB
}

func newSQLStrategy(c *PluginController) Strategy {
	return &sqlStrategy{c: c}
}

// Bind resolves the connection record and opens the database.
func (s *sqlStrategy) Bind(ctx context.Context) error {
	if s.db != nil {
		return nil
	}
	spec := s.c.manifest.Spec.SQLData
	if spec == nil {
		return fmt.Errorf("plugin %s: sqlData is absent", s.c.manifest.Metadata.Name)
	}
	if s.c.config.store == nil {
		return fmt.Errorf("plugin %s: no resource store configured for connection lookup", s.c.manifest.Metadata.Name)
	}

	record, err := s.c.config.store.Get(ctx, s.c.account, entities.KindSQLConnection, spec.Connection)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("plugin %s: SqlConnection %q not found", s.c.manifest.Metadata.Name, spec.Connection)
	}

	connSpec, _ := record.Manifest["spec"].(map[string]any)
	engine, _ := connSpec["engine"].(string)
	dsn, _ := connSpec["dsn"].(string)

	db, err := s.c.config.openDB(engine, dsn)
	if err != nil {
		return fmt.Errorf("plugin %s: open %s connection: %w", s.c.manifest.Metadata.Name, engine, err)
	}
	if maxConns, ok := connSpec["maxOpenConns"].(float64); ok && maxConns > 0 {
		db.SetMaxOpenConns(int(maxConns))
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("plugin %s: ping %s connection: %w", s.c.manifest.Metadata.Name, engine, err)
	}
	s.db = db
	return nil
}

// Fetch executes the query with params bound as named arguments and
// returns the rows as generic mappings.
func (s *sqlStrategy) Fetch(ctx context.Context, params map[string]any) (map[string]any, error) {
	args := make([]any, 0, len(params))
	for k, v := range params {
		args = append(args, sql.Named(k, v))
	}

	rows, err := s.db.QueryContext(ctx, s.c.manifest.Spec.SQLData.Query, args...)
	if err != nil {
		return nil, fmt.Errorf("plugin %s: query: %w", s.c.manifest.Metadata.Name, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		scan := make([]any, len(columns))
		for i := range values {
			scan[i] = &values[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return map[string]any{"rows": out, "count": len(out)}, nil
}

// Close releases the database handle.
func (s *sqlStrategy) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// openDatabase is the default opener. Only the sqlite driver is linked
// into the core; other engines need an opener injected by the host.
func openDatabase(engine, dsn string) (*sql.DB, error) {
	switch engine {
	case "sqlite":
		return sql.Open("sqlite", dsn)
	default:
		return nil, fmt.Errorf("no %s driver linked; inject an opener with WithDBOpener", engine)
	}
}
