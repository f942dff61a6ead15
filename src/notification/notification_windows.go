//go:build windows

package notification

import (
	"log"

	"golang.org/x/sys/windows"
)

func showBlocking(title, message string) {
	t, err := windows.UTF16PtrFromString(title)
	if err != nil {
		log.Printf("%s: %s", title, message)
		return
	}
	m, err := windows.UTF16PtrFromString(message)
	if err != nil {
		log.Printf("%s: %s", title, message)
		return
	}
	if _, err := windows.MessageBox(0, m, t, windows.MB_OK|windows.MB_ICONERROR|windows.MB_TOPMOST); err != nil {
		log.Printf("notification: MessageBox failed: %v", err)
	}
}
