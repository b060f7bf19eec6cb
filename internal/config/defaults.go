package config

var defaults = map[string]any{
	"secret":      "",
	"session_ttl": 12, // hours
	"log_level":   "info",

	"nonce_store": "memory",

	"directory_file": "employees.yaml",

	"support_url": DEFAULT_SUPPORT_URL,
	"base_url":    "/",

	"email.host":     "host.docker.internal",
	"email.port":     "25",
	"email.username": "",
	"email.password": "",
	"email.from":     "noreply@example.com",

	"storage.type":       "sqlite",
	"storage.local.path": "./data/timesheet.db",
}

func Defaults() map[string]any {
	values := make(map[string]any)
	for k, v := range defaults {
		values[k] = v
	}
	return values
}
