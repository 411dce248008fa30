// Package repositories provides the PostgreSQL-backed implementations of the
// engine's persistence contracts: the listing repository consumed by
// comparable selection and the hunt pipeline, and the price-history
// repository consumed by the tracking module.
package repositories

// rowScanner abstracts pgx.Row and pgx.Rows so one scan helper serves both
// single-row and multi-row queries.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

//Personal.AI order the ending
