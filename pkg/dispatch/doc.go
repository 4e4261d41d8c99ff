// Package dispatch sends text completion, image generation and image edit
// requests to AI providers through one entry point.
//
// A Dispatcher resolves the provider for each call (explicit override,
// then base URL detection, then the configured default), substitutes a
// capable provider when the resolved one lacks the requested capability,
// fits the prompt into the provider's request size limit, encodes the
// provider's wire format, sends the call and normalizes the response into
// a providers.DispatchResult.
//
// Basic usage:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("dispatch.yaml", "")
//	if err != nil {
//		return err
//	}
//	d, err := dispatch.FromConfig(cfg)
//	if err != nil {
//		return err
//	}
//	defer d.Close()
//
//	result, err := d.CompleteText(ctx, &providers.DispatchRequest{
//		Prompt: "Describe a lighthouse at dusk",
//		APIKey: apiKey,
//	})
//
// Failures are *providers.ProviderError values (use errors.Is with the
// providers sentinels) or *providers.ValidationError for rejected requests.
// No call is retried.
package dispatch
