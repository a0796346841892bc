// Package protocol defines the JSON wire messages exchanged over the
// WebSocket endpoints. Every frame carries a "type" discriminator; the
// stream handlers decode into the matching struct.
package protocol
