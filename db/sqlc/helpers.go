package db

import (
	"database/sql/driver"

	"github.com/lib/pq"
)

func pqStringArray(vals []string) driver.Valuer {
	return pq.Array(vals)
}
