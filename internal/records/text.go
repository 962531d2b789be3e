package records

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Text is a JSON scalar coerced to its string form. Strings decode as-is,
// numbers keep their literal spelling, booleans become "true"/"false" and
// null decodes to "".
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*t = Text(data)
	default:
		if _, err := strconv.ParseFloat(string(data), 64); err != nil {
			// Objects and arrays are kept as their compact JSON encoding.
			var buf bytes.Buffer
			if cerr := json.Compact(&buf, data); cerr != nil {
				return cerr
			}
			*t = Text(buf.String())
			return nil
		}
		*t = Text(data)
	}
	return nil
}

func (t Text) String() string { return string(t) }
