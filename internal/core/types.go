// AngelaMos | 2026
// types.go

package core

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONStrings stores a string slice as a JSONB column.
type JSONStrings []string

func (s JSONStrings) Value() (driver.Value, error) {
	if s == nil {
		s = JSONStrings{}
	}
	return json.Marshal(s)
}

func (s *JSONStrings) Scan(src any) error {
	if src == nil {
		*s = nil
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan JSONStrings: unsupported type %T", src)
	}

	return json.Unmarshal(data, s)
}

func (s JSONStrings) Contains(value string) bool {
	for _, item := range s {
		if item == value {
			return true
		}
	}
	return false
}
