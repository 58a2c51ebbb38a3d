package utils

// IsOneOf checks if the value is one of the allowed options.
func IsOneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// IsValidPort checks if the port is within lawful range
func IsValidPort(port int) bool {
	return port > 0 && port <= 65535
}
