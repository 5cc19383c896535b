//go:build unix

package wad

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// readArchiveFile returns the file's bytes, memory mapped read-only when
// useMmap is set.
func readArchiveFile(path string, useMmap bool) ([]byte, bool, error) {
	if !useMmap {
		data, err := os.ReadFile(path)
		return data, false, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, false, err
	}
	if fi.Size() == 0 {
		return []byte{}, false, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(fi.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, false, fmt.Errorf("mmap %v: %w", path, err)
	}
	return data, true, nil
}

func releaseArchiveFile(data []byte) error {
	return unix.Munmap(data)
}
