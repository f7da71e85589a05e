package api

import "github.com/danielgtaylor/huma/v2"

// envelopeVersion tags the response shape so clients can detect
// incompatible changes.
const envelopeVersion = 1

// successEnvelope wraps successful response bodies.
type successEnvelope struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// errorEnvelope wraps error response bodies.
type errorEnvelope struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps every huma response body in the shared
// envelope shape. The web client unwraps it before decoding.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	switch body := v.(type) {
	case nil:
		return successEnvelope{V: envelopeVersion, Success: true}, nil
	case *APIError:
		return errorEnvelope{
			V:       envelopeVersion,
			Success: false,
			Error:   body.Message,
			Code:    body.Code,
			Details: body.Details,
		}, nil
	default:
		return successEnvelope{V: envelopeVersion, Success: true, Data: v}, nil
	}
}
