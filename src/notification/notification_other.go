//go:build !windows

package notification

import (
	"fmt"
	"log"
	"os"
)

// showBlocking logs the message; there is no native box to block on here.
func showBlocking(title, message string) {
	log.Printf("%s: %s", title, message)
	fmt.Fprintf(os.Stderr, "%s: %s\n", title, message)
}
