// Package api defines the FitTrack gRPC contract: messages, the service descriptor and a typed client.
//
// Messages are plain structs carried by a JSON codec registered under the "json" content-subtype,
// so clients must call with grpc.CallContentSubtype(CodecName). Client does this for every call.
package api

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype of the JSON codec.
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
