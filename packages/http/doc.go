// Package http provides the HTTP client used by itemprobe.
//
// It wraps the standard library's http package with:
//   - Optional request timeouts
//   - Default headers applied to every request
//   - A generated X-Request-ID per request
//   - Debug request logging through logrus
//   - Fully buffered responses with timing
package http
