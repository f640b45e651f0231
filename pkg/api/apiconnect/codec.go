// Package apiconnect wires the api messages into Connect handlers and clients.
//
// The services have no protobuf schema, so every handler and client is built
// with a JSON codec that marshals the plain Go message structs. Requests use
// the Connect protocol with Content-Type application/json.
package apiconnect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// codecName replaces Connect's built-in protojson codec.
const codecName = "json"

type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

func (jsonCodec) Name() string { return codecName }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// WithJSON is the option every handler and client in this package starts with.
func WithJSON() connect.Option {
	return connect.WithCodec(jsonCodec{})
}
