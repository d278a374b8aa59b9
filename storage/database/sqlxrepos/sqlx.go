package sqlxrepos

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/college/core"
)

// statements are written with "?" and rebound for the executor's driver
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func getExec(db core.DBExecutor, exec []core.DBExecutor) core.DBExecutor {
	if len(exec) > 0 && exec[0] != nil {
		return exec[0]
	}
	return db
}

func toSQL(exec core.DBExecutor, b sq.Sqlizer) (string, []interface{}, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return "", nil, errors.Wrap(err, "building query")
	}
	return exec.Rebind(query), args, nil
}

func selectAll(ctx context.Context, exec core.DBExecutor, dest interface{}, b sq.Sqlizer) error {
	query, args, err := toSQL(exec, b)
	if err != nil {
		return err
	}
	return sqlx.SelectContext(ctx, exec, dest, query, args...)
}

func selectOne(ctx context.Context, exec core.DBExecutor, dest interface{}, b sq.Sqlizer) error {
	query, args, err := toSQL(exec, b)
	if err != nil {
		return err
	}
	return sqlx.GetContext(ctx, exec, dest, query, args...)
}

func insertReturningID(ctx context.Context, exec core.DBExecutor, b sq.InsertBuilder) (int64, error) {
	query, args, err := toSQL(exec, b.Suffix("RETURNING id"))
	if err != nil {
		return 0, err
	}
	var id int64
	if err = exec.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func execute(ctx context.Context, exec core.DBExecutor, b sq.Sqlizer) (sql.Result, error) {
	query, args, err := toSQL(exec, b)
	if err != nil {
		return nil, err
	}
	return exec.ExecContext(ctx, query, args...)
}

// aliased qualifies columns with table while keeping their bare name in the result set.
func aliased(table string, columns ...string) []string {
	out := make([]string, 0, len(columns))
	for _, col := range columns {
		out = append(out, table+"."+col+" AS "+col)
	}
	return out
}

// containsCI matches any of columns against search, case-insensitively.
func containsCI(search string, columns ...string) sq.Or {
	pattern := "%" + strings.ToLower(search) + "%"
	or := make(sq.Or, 0, len(columns))
	for _, col := range columns {
		or = append(or, sq.Like{"LOWER(" + col + ")": pattern})
	}
	return or
}

func orderBy(b sq.SelectBuilder, ordering []core.DBOrdering, columns map[string]string, fallback string) sq.SelectBuilder {
	clauses := core.OrderingClauses(ordering, columns)
	if len(clauses) == 0 {
		clauses = []string{fallback}
	}
	return b.OrderBy(clauses...)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// dbTime reads timestamps stored natively (postgres) or as text (sqlite).
type dbTime struct {
	Time     time.Time
	Valid    bool
	DateOnly bool
}

func newDBTime(t time.Time) dbTime {
	return dbTime{Time: t, Valid: !t.IsZero()}
}

func newDBDate(t time.Time) dbTime {
	return dbTime{Time: t, Valid: !t.IsZero(), DateOnly: true}
}

func (t *dbTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v.UTC(), true
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	}
	return errors.Errorf("cannot scan %T into a timestamp", src)
}

func (t *dbTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time, t.Valid = parsed.UTC(), true
			return nil
		}
	}
	return errors.Errorf("cannot parse timestamp %q", s)
}

func (t dbTime) Value() (driver.Value, error) {
	if !t.Valid {
		return nil, nil
	}
	if t.DateOnly {
		return t.Time.Format("2006-01-02"), nil
	}
	return t.Time.UTC().Format(time.RFC3339Nano), nil
}
