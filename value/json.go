package value

import (
	"encoding/json"
	"fmt"
)

// jsonValue is the wire representation of a Value: a tagged object like
// {"type":"int","value":1}. Null carries no value key. The explicit tag
// keeps Int(1) and Text("1") distinct across the wire, mirroring the
// kind-exact equality of the in-memory form.
type jsonValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	jv := jsonValue{Type: v.T.String()}
	var err error
	switch v.T {
	case TypeInt:
		jv.Value, err = json.Marshal(v.I)
	case TypeText:
		jv.Value, err = json.Marshal(v.S)
	case TypeBool:
		jv.Value, err = json.Marshal(v.B)
	case TypeNull:
		// tag only
	default:
		err = fmt.Errorf("cannot marshal %s", v.T)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(jv)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var jv jsonValue
	if err := json.Unmarshal(data, &jv); err != nil {
		return err
	}
	t, err := ParseType(jv.Type)
	if err != nil {
		return err
	}
	switch t {
	case TypeInt:
		var i int64
		if err := json.Unmarshal(jv.Value, &i); err != nil {
			return fmt.Errorf("int value: %w", err)
		}
		*v = Int(i)
	case TypeText:
		var s string
		if err := json.Unmarshal(jv.Value, &s); err != nil {
			return fmt.Errorf("text value: %w", err)
		}
		*v = Text(s)
	case TypeBool:
		var b bool
		if err := json.Unmarshal(jv.Value, &b); err != nil {
			return fmt.Errorf("bool value: %w", err)
		}
		*v = Bool(b)
	case TypeNull:
		*v = Null
	}
	return nil
}
