package games

import "fmt"

// FlexBool accepts the boolean encodings heterogeneous clients actually send:
// native JSON booleans and the string literals "true"/"false" (multipart form
// bodies serialize everything as strings). Document flags and request flags
// normalize through it so the rest of the code only ever sees a real boolean.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true", `"true"`:
		*b = true
	case "false", `"false"`:
		*b = false
	default:
		return fmt.Errorf("invalid boolean value %s", data)
	}
	return nil
}

func (b FlexBool) Bool() bool {
	return bool(b)
}
