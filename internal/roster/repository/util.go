package repository

import (
	"github.com/jmoiron/sqlx"
)

// inClause expands a query containing one `(?)` placeholder against ids
// using sqlx.In. Callers must still Rebind the returned query against
// their *database.DB before executing it.
func inClause(query string, ids []string) (string, []interface{}) {
	expanded, args, err := sqlx.In(query, ids)
	if err != nil {
		// ids is always a non-empty []string built internally; sqlx.In
		// only errs on unsupported argument kinds.
		panic(err)
	}
	return expanded, args
}
