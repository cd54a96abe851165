package model

import (
	"database/sql/driver"
	"encoding/json"
)

// StringArray stores a string list in a JSON column.
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

func (s *StringArray) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = []string{}
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return nil
	}
}

// All lists every model the schema migration must create.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Patent{},
		&Subscription{},
		&Interaction{},
	}
}
