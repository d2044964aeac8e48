//go:build !linux

package platform

import "errors"

// NewX11Backend is only available on linux.
func NewX11Backend(title string, width, height int) (Backend, error) {
	return nil, errors.New("x11 backend is only supported on linux")
}
