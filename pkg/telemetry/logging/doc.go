// Package logging provides structured logging with secret redaction.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - JSON, text and console output
//   - Masking of API keys, bearer tokens and inline base64 images
//   - Context fields (request_id, provider, model, kind, trace_id)
//
// # Usage
//
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, os.Stderr))
//	if err != nil {
//	    return err
//	}
//
//	ctx = logging.WithRequestID(ctx, id)
//	logger.InfoContext(ctx, "dispatching",
//	    "provider", "openai",
//	    "api_key", key, // logged as "sk-p***"
//	)
//
// Components take a *slog.Logger; pass logger.Slog() so records logged
// through it are redacted the same way.
//
// # Redaction
//
// Values under keys ending in token, secret, password or api_key are masked
// whole. Every other string attribute and the message itself are scanned:
//
//   - sk-proj-abc123... → sk-***
//   - AIzaSyD...        → AIza***
//   - Bearer eyJ...     → Bearer ***
//   - data:image/png;base64,iVBOR... → data:image;base64,***
package logging
