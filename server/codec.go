package server

import (
	"encoding/gob"
	"encoding/json"
	"io"

	"github.com/gorilla/websocket"
)

// Codec frames one message per websocket message.
type Codec interface {
	Name() string
	MessageType() int
	Encode(w io.Writer, v interface{}) error
	Decode(r io.Reader, v interface{}) error
}

type GobCodec struct{}

func (GobCodec) Name() string                            { return "gob" }
func (GobCodec) MessageType() int                        { return websocket.BinaryMessage }
func (GobCodec) Encode(w io.Writer, v interface{}) error { return gob.NewEncoder(w).Encode(v) }
func (GobCodec) Decode(r io.Reader, v interface{}) error { return gob.NewDecoder(r).Decode(v) }

// JSONCodec is what browsers and the XR page speak.
type JSONCodec struct{}

func (JSONCodec) Name() string                            { return "json" }
func (JSONCodec) MessageType() int                        { return websocket.TextMessage }
func (JSONCodec) Encode(w io.Writer, v interface{}) error { return json.NewEncoder(w).Encode(v) }
func (JSONCodec) Decode(r io.Reader, v interface{}) error { return json.NewDecoder(r).Decode(v) }

// CodecByName defaults to JSON.
func CodecByName(name string) (Codec, bool) {
	switch name {
	case "", "json":
		return JSONCodec{}, true
	case "gob":
		return GobCodec{}, true
	}
	return nil, false
}
