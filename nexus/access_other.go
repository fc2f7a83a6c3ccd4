//go:build !unix

package nexus

import "os"

func canRead(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func canWrite(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().Perm()&0o200 != 0
}
