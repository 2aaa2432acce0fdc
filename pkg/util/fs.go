// pkg/util/fs.go
// Copyright(c) 2024 Holger Teutsch, licensed under the MIT License
// SPDX: MIT

package util

import (
	"fmt"
	"os"
)

// CopyDir recursively copies the directory src to dst; dst must not exist
// yet. It is used for the one-time backup of a scenery folder before it is
// rewritten.
func CopyDir(dst, src string) error {
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("%s: already exists", dst)
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	return os.CopyFS(dst, os.DirFS(src))
}
