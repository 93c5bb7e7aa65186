package sqlxrepos

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/trezcool/educore/core"
)

// builder writes "?" placeholders; queries are rebound for the executor's driver before running.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

type repository struct {
	exec core.DBExecutor
}

func (repo repository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return repo.exec
}

// trapNoRowsErr maps sql.ErrNoRows to notFound
func trapNoRowsErr(err, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// pqForeignKeyViolation is the SQLSTATE of a foreign key violation.
const pqForeignKeyViolation = "23503"

// trapConstraintErr maps a foreign key violation to missingRef
func trapConstraintErr(err, missingRef error, msg string) error {
	if isForeignKeyViolation(err) {
		return missingRef
	}
	return errors.Wrap(err, msg)
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqForeignKeyViolation
	}
	return false
}

func get(ctx context.Context, exec core.DBExecutor, dest interface{}, q sq.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return exec.GetContext(ctx, dest, exec.Rebind(query), args...)
}

func selectAll(ctx context.Context, exec core.DBExecutor, dest interface{}, q sq.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return exec.SelectContext(ctx, dest, exec.Rebind(query), args...)
}

func execute(ctx context.Context, exec core.DBExecutor, q sq.Sqlizer) (sql.Result, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	return exec.ExecContext(ctx, exec.Rebind(query), args...)
}

// executeOne runs q and reports whether it affected at least one row.
func executeOne(ctx context.Context, exec core.DBExecutor, q sq.Sqlizer) (bool, error) {
	res, err := execute(ctx, exec, q)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "reading affected rows")
	}
	return n > 0, nil
}

// count runs a COUNT(*) over the FROM, JOIN & WHERE clauses of base.
func count(ctx context.Context, exec core.DBExecutor, base sq.SelectBuilder) (int, error) {
	var total int
	if err := get(ctx, exec, &total, base.Columns("COUNT(*)")); err != nil {
		return 0, err
	}
	return total, nil
}

func paginate(q sq.SelectBuilder, p core.Pagination) sq.SelectBuilder {
	return q.Limit(uint64(p.Limit)).Offset(uint64(p.Offset()))
}
