// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes. These give clients a machine-readable reason
// beyond the standard range.
const (
	BadSubprotocolError  = 3000 // Client connected with an unsupported subprotocol.
	InvalidSessionError  = 3001 // Session token was present but invalid.
	UnknownRoomError     = 3002 // Target room does not exist.
	InvalidJoinError     = 4000 // Name or avatar failed validation.
	RemovedForInactivity = 4001 // Kicked after repeated turn timeouts.
)
