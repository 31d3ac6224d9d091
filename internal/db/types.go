package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringSlice wraps []string with sql.Scanner and driver.Valuer so source
// article/link arrays and user interests round-trip through jsonb columns.
type StringSlice []string

// Scan implements sql.Scanner.
func (s *StringSlice) Scan(src interface{}) error {
	if s == nil {
		return fmt.Errorf("dbtypes: Scan on nil *StringSlice")
	}
	if src == nil {
		*s = []string{}
		return nil
	}

	switch v := src.(type) {
	case []byte:
		var out []string
		if err := json.Unmarshal(v, &out); err != nil {
			return err
		}
		*s = out
		return nil
	case string:
		var out []string
		if err := json.Unmarshal([]byte(v), &out); err != nil {
			return err
		}
		*s = out
		return nil
	default:
		return fmt.Errorf("dbtypes: cannot scan type %T into StringSlice", src)
	}
}

// Value implements driver.Valuer. A nil slice marshals to the empty array so
// jsonb columns never hold SQL NULL.
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
