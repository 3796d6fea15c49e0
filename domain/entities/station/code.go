package station

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Code is an identifier that is numeric for most records but may carry text
// (station numbers, INSEE codes). It encodes to JSON as a number when numeric
// and as a string otherwise.
type Code struct {
	number  int
	text    string
	numeric bool
}

func NewNumericCode(number int) Code {
	return Code{number: number, numeric: true}
}

func NewTextCode(text string) Code {
	return Code{text: text}
}

// ParseCode returns a numeric Code when text parses as an integer and a text Code
// holding the original value otherwise
func ParseCode(text string) Code {
	number, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return NewTextCode(text)
	}
	return NewNumericCode(number)
}

// Int returns the numeric value and whether the code is numeric
func (c Code) Int() (int, bool) {
	return c.number, c.numeric
}

func (c Code) IsNumeric() bool {
	return c.numeric
}

func (c Code) String() string {
	if c.numeric {
		return strconv.Itoa(c.number)
	}
	return c.text
}

func (c Code) MarshalJSON() ([]byte, error) {
	if c.numeric {
		return json.Marshal(c.number)
	}
	return json.Marshal(c.text)
}

func (c *Code) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*c = NewTextCode(text)
		return nil
	}

	var number int
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("code must be an integer or a string: %w", err)
	}
	*c = NewNumericCode(number)
	return nil
}

// codeFromRaw converts a decoded raw value into a Code. nil stays nil.
func codeFromRaw(value any) *Code {
	var code Code
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		code = ParseCode(v)
	case json.Number:
		code = ParseCode(v.String())
	case int:
		code = NewNumericCode(v)
	case int64:
		code = NewNumericCode(int(v))
	case float64:
		if integral, ok := integralFloat(v); ok {
			code = NewNumericCode(integral)
		} else {
			code = NewTextCode(strconv.FormatFloat(v, 'f', -1, 64))
		}
	default:
		code = NewTextCode(fmt.Sprint(v))
	}
	return &code
}
