package common

import (
	"fmt"
	"strings"
)

// ParseBool accepts "true" and "false" in any letter case. Anything else
// is an ErrInvalidConfig.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidConfig, s)
}
