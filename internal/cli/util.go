package cli

import (
	"fmt"
	"strings"
	"time"
)

func secondsOf(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// parseAssignments turns name=value pairs into a slice of pairs,
// keeping order. Values may contain '='.
func parseAssignments(pairs []string) ([][2]string, error) {
	out := make([][2]string, 0, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid variable %q, expected name=value", p)
		}
		out = append(out, [2]string{name, value})
	}
	return out, nil
}
