// Package api defines Tally's Connect RPC surface: the wire messages, the
// procedure routes, and handler/client constructors for each service.
//
// The messages are plain Go structs carried as JSON through Connect's
// pluggable codec support; there is no generated schema code. Amounts cross
// the wire as fixed two-decimal strings so no caller ever sees binary
// floating point.
package api

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// jsonCodec marshals wire messages with encoding/json. Registering it under
// the name "json" makes Connect serve application/json requests with it.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(message any) ([]byte, error) {
	return json.Marshal(message)
}

func (jsonCodec) Unmarshal(data []byte, message any) error {
	return json.Unmarshal(data, message)
}

// withJSON prepends the JSON codec to handler options.
func withJSON(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
}

// withJSONClient prepends the JSON codec to client options.
func withJSONClient(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
}
