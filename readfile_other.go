//go:build !unix

package wad

import "os"

func readArchiveFile(path string, _ bool) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	return data, false, err
}

func releaseArchiveFile([]byte) error {
	return nil
}
