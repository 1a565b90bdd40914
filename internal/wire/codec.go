// Package wire converts tick snapshots and waypoint decisions to and from
// the formats game servers speak: JSON and msgpack.
package wire

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	ContentTypeJSON    = "application/json"
	ContentTypeMsgpack = "application/msgpack"
)

var ErrUnsupportedContentType = errors.New("unsupported content type")

type Codec interface {
	ContentType() string
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

type jsonCodec struct{}

func (jsonCodec) ContentType() string                        { return ContentTypeJSON }
func (jsonCodec) Marshal(v interface{}) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }

type msgpackCodec struct{}

func (msgpackCodec) ContentType() string                        { return ContentTypeMsgpack }
func (msgpackCodec) Marshal(v interface{}) ([]byte, error)      { return msgpack.Marshal(v) }
func (msgpackCodec) Unmarshal(data []byte, v interface{}) error { return msgpack.Unmarshal(data, v) }

var (
	JSON    Codec = jsonCodec{}
	Msgpack Codec = msgpackCodec{}
)

// Lookup returns the codec for a content type. An empty content type
// means JSON.
func Lookup(contentType string) (Codec, error) {
	switch contentType {
	case "", ContentTypeJSON, "json":
		return JSON, nil
	case ContentTypeMsgpack, "application/x-msgpack", "msgpack":
		return Msgpack, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
}
