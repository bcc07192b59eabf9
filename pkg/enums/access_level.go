package enums

import "fmt"

// AccessLevel captures the capability granted by a store access grant.
type AccessLevel string

const (
	AccessLevelView       AccessLevel = "view"
	AccessLevelViewAndBuy AccessLevel = "view_and_buy"
)

var validAccessLevels = []AccessLevel{
	AccessLevelView,
	AccessLevelViewAndBuy,
}

// String implements fmt.Stringer.
func (a AccessLevel) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AccessLevel.
func (a AccessLevel) IsValid() bool {
	for _, candidate := range validAccessLevels {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAccessLevel converts raw input into an AccessLevel.
func ParseAccessLevel(value string) (AccessLevel, error) {
	for _, candidate := range validAccessLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid access level %q", value)
}
