package usecase

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Stringify renders a decoded JSON scalar the way a client would expect to
// see it echoed back: numbers without exponent, nil as "".
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
