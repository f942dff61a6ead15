package singleinstance

import (
	"os"
	"strconv"
)

const (
	defaultFirstPort = 49600
	defaultLastPort  = 49610

	envFirstPort = "ONSCREEN_TRANSLATOR_PORT_START"
	envLastPort  = "ONSCREEN_TRANSLATOR_PORT_END"
)

// portRange is the inclusive loopback range. The resident binds only first;
// clients scan all of it.
type portRange struct {
	first, last int
}

func configuredPorts() portRange {
	r := portRange{
		first: envPort(envFirstPort, defaultFirstPort),
		last:  envPort(envLastPort, defaultLastPort),
	}
	if r.last < r.first {
		r.first, r.last = r.last, r.first
	}
	return r
}

// envPort reads a port from key, clamped to the unprivileged range.
func envPort(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return min(max(n, 1024), 65535)
}
