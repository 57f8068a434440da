// Package output provides JSON/text output formatting and error handling.
package output

// Exit codes. Probe batches always exit 0; targeted commands use these.
const (
	ExitOK       = 0 // Success
	ExitUsage    = 1 // Invalid arguments or flags
	ExitNotFound = 2 // Endpoint or resource not found
	ExitAuth     = 3 // No credential / authentication failed
	ExitNetwork  = 6 // Connection/DNS/timeout error
	ExitAPI      = 7 // Server returned an error, or response unparseable
)

// Error codes for the JSON envelope.
const (
	CodeUsage    = "usage"
	CodeNotFound = "not_found"
	CodeAuth     = "auth_required"
	CodeNetwork  = "network"
	CodeParse    = "parse_error"
	CodeAPI      = "api_error"
)

// ExitCodeFor returns the exit code for a given error code.
func ExitCodeFor(code string) int {
	switch code {
	case CodeUsage:
		return ExitUsage
	case CodeNotFound:
		return ExitNotFound
	case CodeAuth:
		return ExitAuth
	case CodeNetwork:
		return ExitNetwork
	case CodeParse, CodeAPI:
		return ExitAPI
	default:
		return ExitAPI
	}
}
