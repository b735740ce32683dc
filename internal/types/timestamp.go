package types

import (
	"strings"
	"time"
)

// naiveLayout is a timestamp without a zone offset. The backend emits
// these for columns stored without time zone, they are read as UTC.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// Timestamp is a point in time as reported by the backend.
type Timestamp time.Time

// MarshalJSON implements the json.Marshaler interface.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return time.Time(t).MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		return nil
	}

	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		parsed, err = time.ParseInLocation(naiveLayout, strings.Replace(value, " ", "T", 1), time.UTC)
		if err != nil {
			return err
		}
	}

	*t = Timestamp(parsed)
	return nil
}

func (t Timestamp) Time() time.Time {
	return time.Time(t)
}
