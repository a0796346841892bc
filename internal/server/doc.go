// Package server exposes the exchange over HTTP and WebSocket.
//
// Endpoints:
//
//	GET /v1/stocks                      unary listing (JSON)
//	GET /v1/offer                       client-streaming listing offers (WebSocket)
//	GET /v1/follow?ticker=T&interval=D  server-streaming price feed (WebSocket)
//	GET /v1/trade                       bidirectional order stream (WebSocket)
//	GET /healthz                        liveness probe
//
// Each WebSocket session is handled by its own goroutine; the security
// registry is the only state shared between sessions.
package server
