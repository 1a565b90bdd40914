package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
)

// ID is an aircraft id as the game server sent it. Servers use either
// strings or numbers; numeric ids are echoed back as numbers.
type ID struct {
	Value   string
	Numeric bool
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		id.Numeric = false
		return json.Unmarshal(data, &id.Value)
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return fmt.Errorf("id %s is neither a string nor a number", data)
	}
	id.Value, id.Numeric = string(data), true
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.Numeric {
		return []byte(id.Value), nil
	}
	return json.Marshal(id.Value)
}

func (id *ID) DecodeMsgpack(dec *msgpack.Decoder) error {
	v, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return err
	}
	switch v := v.(type) {
	case string:
		id.Value, id.Numeric = v, false
	case int64:
		id.Value, id.Numeric = strconv.FormatInt(v, 10), true
	case uint64:
		id.Value, id.Numeric = strconv.FormatUint(v, 10), true
	case float64:
		id.Value, id.Numeric = strconv.FormatFloat(v, 'g', -1, 64), true
	default:
		return fmt.Errorf("id of type %T is neither a string nor a number", v)
	}
	return nil
}

func (id ID) EncodeMsgpack(enc *msgpack.Encoder) error {
	if !id.Numeric {
		return enc.EncodeString(id.Value)
	}
	if i, err := strconv.ParseInt(id.Value, 10, 64); err == nil {
		return enc.EncodeInt(i)
	}
	f, err := strconv.ParseFloat(id.Value, 64)
	if err != nil {
		return err
	}
	return enc.EncodeFloat64(f)
}
