package instance

import "os"

// GetID identifies this process in lock ownership and logs. It prefers
// PACKFINDERZ_INSTANCE_ID, then the hostname, then a fixed default.
func GetID() string {
	if id := os.Getenv("PACKFINDERZ_INSTANCE_ID"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "instance-0"
}
