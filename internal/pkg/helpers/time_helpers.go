package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a config duration such as "8h" or "500ms", falling
// back to def when the value is empty or malformed.
func ParseDuration(value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Warn().Err(err).Str("value", value).Dur("default", def).Msg("Invalid duration, using default")
		return def
	}
	return d
}
