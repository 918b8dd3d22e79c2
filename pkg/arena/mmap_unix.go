//go:build unix

package arena

import (
	"errors"

	"golang.org/x/sys/unix"
)

// mapAnon maps size bytes of anonymous private memory.
func mapAnon(size int) ([]byte, func() error, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}
	release := func() error {
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Already unmapped.
			return nil
		}
		return err
	}
	return data, release, nil
}
