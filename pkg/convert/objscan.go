// pkg/convert/objscan.go
// Copyright(c) 2024 Holger Teutsch, licensed under the MIT License
// SPDX: MIT

package convert

import (
	"bufio"
	"io/fs"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// samJetwayDataref appears in any .obj that is animated by the SAM
// plugin.
const samJetwayDataref = "sam/jetway/rotate1"

// ObjScanner checks whether a scenery-local object file is SAM
// controlled. The same objects are referenced from every DSF tile of a
// package, so scan results are kept in an LRU cache.
type ObjScanner struct {
	root  fs.FS
	cache *lru.Cache[string, bool]
}

// NewObjScanner scans object files relative to root, the scenery package
// directory the DSF resource paths are relative to.
func NewObjScanner(root fs.FS) *ObjScanner {
	cache, _ := lru.New[string, bool](4096)
	return &ObjScanner{root: root, cache: cache}
}

// IsSamJetway reports whether the object file at path carries SAM jetway
// datarefs. Unreadable or missing files are not SAM jetways.
func (s *ObjScanner) IsSamJetway(path string) bool {
	if v, ok := s.cache.Get(path); ok {
		return v
	}

	sam := false
	if f, err := s.root.Open(path); err == nil {
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			if strings.Contains(sc.Text(), samJetwayDataref) {
				sam = true
				break
			}
		}
		f.Close()
	}

	s.cache.Add(path, sam)
	return sam
}
