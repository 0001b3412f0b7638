// Package gateway provides normalized clients for the external AI providers:
// Anthropic for text generation, OpenRouter for image understanding and
// generation. Every operation performs one outbound HTTP call through a
// per-provider circuit breaker and returns a Result or a classified error;
// missing credentials fail before any network I/O.
package gateway
