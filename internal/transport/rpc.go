package transport

import (
	"encoding/json"

	"github.com/tidwall/sjson"
)

const jsonRPCVersion = "2.0"

// Response is a JSON-RPC 2.0 response envelope. Result and Error are
// mutually exclusive; both use json.RawMessage so a handler can supply
// an already-marshaled, strongly-typed payload without a second encode.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ResponseError  `json:"error,omitempty"`
}

// ResponseError is a JSON-RPC 2.0 error object.
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewResult builds a success Response, marshaling result.
func NewResult(id json.RawMessage, result any) (*Response, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &Response{JSONRPC: jsonRPCVersion, ID: id, Result: raw}, nil
}

// NewNullResult builds a success Response whose result is JSON null, the
// reply a handler gives when it has nothing to return (e.g. no word under
// the cursor). Unrecognized methods are answered by PassthroughNullResult.
func NewNullResult(id json.RawMessage) *Response {
	return &Response{JSONRPC: jsonRPCVersion, ID: id, Result: json.RawMessage("null")}
}

// NewError builds an error Response.
func NewError(id json.RawMessage, code int, message string) *Response {
	return &Response{JSONRPC: jsonRPCVersion, ID: id, Error: &ResponseError{Code: code, Message: message}}
}

// Encode marshals resp to its wire bytes.
func (resp *Response) Encode() ([]byte, error) {
	return json.Marshal(resp)
}

// PassthroughNullResult builds the raw bytes of a {"jsonrpc":"2.0","id":...,
// "result":null} response for a method this server has no typed struct
// for, using sjson to assemble the object without round-tripping through
// a Go struct.
func PassthroughNullResult(id json.RawMessage) ([]byte, error) {
	doc := `{"jsonrpc":"2.0"}`
	doc, err := sjson.SetRaw(doc, "id", string(id))
	if err != nil {
		return nil, err
	}
	doc, err = sjson.Set(doc, "result", nil)
	if err != nil {
		return nil, err
	}
	return []byte(doc), nil
}
