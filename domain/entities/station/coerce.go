package station

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Best-effort conversions of decoded raw values. Numbers arrive as float64 from a plain
// json.Unmarshal and as json.Number when the decoder runs with UseNumber.

func optionalString(value any) *string {
	if value == nil {
		return nil
	}
	text := stringValue(value)
	return &text
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func optionalInt(value any) *int {
	var number int
	switch v := value.(type) {
	case int:
		number = v
	case int64:
		number = int(v)
	case float64:
		integral, ok := integralFloat(v)
		if !ok {
			return nil
		}
		number = integral
	case json.Number:
		parsed, err := v.Int64()
		if err != nil {
			return nil
		}
		number = int(parsed)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		number = parsed
	default:
		return nil
	}
	return &number
}

// integralFloat converts v to an int when it has no fractional part and fits in an int
func integralFloat(v float64) (int, bool) {
	if v != math.Trunc(v) || v < math.MinInt || v >= -float64(math.MinInt) {
		return 0, false
	}
	return int(v), true
}

func floatValue(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		parsed, _ := v.Float64()
		return parsed
	case string:
		parsed, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return parsed
	default:
		return 0
	}
}

func boolValue(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		parsed, _ := strconv.ParseBool(strings.TrimSpace(v))
		return parsed
	default:
		return false
	}
}

// splitPoles keeps the provider order. A null pole field stays nil, never an empty slice.
func splitPoles(value any) []string {
	if value == nil {
		return nil
	}
	return strings.Split(stringValue(value), polesSeparator)
}
