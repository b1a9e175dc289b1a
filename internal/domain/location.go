package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrLocalTimezone = errors.New("timezone: host local time cannot define a calendar day")

// LoadLocation resolves an IANA zone name for day windows. An empty name is
// UTC. "Local" is refused so window boundaries never follow the host zone.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC, nil
	}
	if strings.EqualFold(name, "Local") {
		return nil, ErrLocalTimezone
	}
	return time.LoadLocation(name)
}
