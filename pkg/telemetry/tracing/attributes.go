package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys use the "dispatch.*" namespace.
const (
	AttrRequestID    = "dispatch.request_id"
	AttrProvider     = "dispatch.provider"
	AttrModel        = "dispatch.model"
	AttrKind         = "dispatch.kind"
	AttrPromptLength = "dispatch.prompt.length"

	AttrSubstitutedFrom = "dispatch.substituted_from"

	AttrCompressionMethod   = "dispatch.compression.method"
	AttrCompressionOriginal = "dispatch.compression.original_length"
	AttrCompressionFinal    = "dispatch.compression.final_length"

	AttrHTTPStatus = "http.status_code"

	AttrErrorKind    = "dispatch.error.kind"
	AttrErrorMessage = "error.message"
)

// SetProviderAttributes sets provider-related attributes on a span.
func SetProviderAttributes(span trace.Span, provider, model string) {
	span.SetAttributes(
		attribute.String(AttrProvider, provider),
		attribute.String(AttrModel, model),
	)
}

// SetCompressionAttributes records a compression outcome on a span.
func SetCompressionAttributes(span trace.Span, method string, originalLength, finalLength int) {
	span.SetAttributes(
		attribute.String(AttrCompressionMethod, method),
		attribute.Int(AttrCompressionOriginal, originalLength),
		attribute.Int(AttrCompressionFinal, finalLength),
	)
}

// SetErrorAttributes marks the span as failed with the error's taxonomy kind.
func SetErrorAttributes(span trace.Span, err error, errorKind string) {
	if err == nil {
		return
	}
	span.SetAttributes(attribute.String(AttrErrorKind, errorKind))
	SetError(span, err)
	SetStatus(span, err)
}

// RequestAttributes returns the attributes known when a call starts, for
// use with trace.WithAttributes.
func RequestAttributes(requestID, kind string, promptLength int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrRequestID, requestID),
		attribute.String(AttrKind, kind),
		attribute.Int(AttrPromptLength, promptLength),
	}
}

// SubstitutedFrom marks a span whose provider replaced one lacking the capability.
func SubstitutedFrom(provider string) attribute.KeyValue {
	return attribute.String(AttrSubstitutedFrom, provider)
}

// HTTPStatus is the provider response status attribute.
func HTTPStatus(code int) attribute.KeyValue {
	return attribute.Int(AttrHTTPStatus, code)
}
