//go:build !linux && !darwin

package engine

import "errors"

var errSpaceUnsupported = errors.New("free space check not supported on this platform")

func freeSpace(dir string) (int64, error) {
	return 0, errSpaceUnsupported
}
