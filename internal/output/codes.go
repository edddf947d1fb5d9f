// Package output provides JSON/YAML/styled output formatting and error handling.
package output

// Exit codes.
const (
	ExitOK      = 0 // Success
	ExitUsage   = 1 // Invalid arguments or flags
	ExitNetwork = 6 // Connection/DNS/timeout error
	ExitAPI     = 7 // Server returned error status
	ExitDecode  = 9 // Response body not understood

	ExitCanceled = 130 // Interrupted by the user
)

// Error codes for JSON envelope.
const (
	CodeUsage   = "usage"
	CodeNetwork = "network"
	CodeAPI     = "api_error"
	CodeDecode  = "decode"

	CodeCanceled = "canceled"
)

// ExitCodeFor returns the exit code for a given error code.
func ExitCodeFor(code string) int {
	switch code {
	case CodeUsage:
		return ExitUsage
	case CodeNetwork:
		return ExitNetwork
	case CodeAPI:
		return ExitAPI
	case CodeDecode:
		return ExitDecode
	case CodeCanceled:
		return ExitCanceled
	default:
		return ExitAPI
	}
}
