package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const PurchasesTableSchema = `
	CREATE TABLE IF NOT EXISTS purchases (
		row_id BIGINT NOT NULL,
		customer_id VARCHAR,
		age INTEGER NOT NULL,
		gender VARCHAR NOT NULL,
		category VARCHAR NOT NULL,
		item VARCHAR NOT NULL,
		amount DECIMAL(18, 4) NOT NULL,
		season VARCHAR NOT NULL,
		extra JSON
	);
`

var bootQueries = []string{
	PurchasesTableSchema,
}

type Settings struct {
	DbPath  string
	Threads int
}

func NewDB(settings Settings) (*sql.DB, error) {
	threads := settings.Threads
	if threads <= 0 {
		threads = 4
	}

	dsn := fmt.Sprintf("%s?threads=%d", settings.DbPath, threads)
	c, err := duckdb.NewConnector(dsn, func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
