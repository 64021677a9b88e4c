package utils

import (
	"math/rand"
)

// flavorPrefixes are the playful strings prepended to denial messages.
// They are purely cosmetic; the machine-readable reason is always the
// suffix, so clients can match on it regardless of which prefix was
// drawn.
var flavorPrefixes = []string{
	"Oops! ",
	"Hold it right there! ",
	"Hmm, that didn't work. ",
	"Access denied, friend. ",
	"Not so fast! ",
}

// Flavor prepends a randomly chosen playful prefix to a fixed reason
// string. Only presentation changes between calls; the reason suffix is
// stable.
func Flavor(reason string) string {
	return flavorPrefixes[rand.Intn(len(flavorPrefixes))] + reason
}
