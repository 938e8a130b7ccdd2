package repositories

import (
	"errors"
	"sort"

	"fleetmove/internal/domain"

	"github.com/go-sql-driver/mysql"
)

// mapWriteError turns MySQL constraint failures into domain errors.
func mapWriteError(err error) error {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return err
	}
	switch myErr.Number {
	case 1062:
		return domain.ConflictError{Msg: "duplicate entry", Err: err}
	case 1451:
		return domain.ConflictError{Msg: "record is still referenced", Err: err}
	case 1452:
		return domain.ValidationError{Msg: "referenced driver or vehicle does not exist", Err: err}
	}
	return err
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
