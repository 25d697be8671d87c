package main

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// decoder wraps r to decode the named single-byte code page. Names match
// charmap names ignoring case, spaces and dashes ("windows-1252", "ISO-8859-1"),
// and cpNNN is accepted for Windows and IBM code pages. Empty and UTF-8 read r
// unchanged.
func decoder(name string, r io.Reader) (io.Reader, error) {
	key := normalizeCharset(name)
	if key == "" || key == "utf8" {
		return r, nil
	}

	candidates := []string{key}
	if num, ok := strings.CutPrefix(key, "cp"); ok {
		candidates = []string{"windows" + num, "ibmcodepage" + num}
	}
	for _, enc := range charmap.All {
		cm, ok := enc.(*charmap.Charmap)
		if !ok {
			continue
		}
		for _, c := range candidates {
			if normalizeCharset(cm.String()) == c {
				return cm.NewDecoder().Reader(r), nil
			}
		}
	}
	return nil, fmt.Errorf("unknown encoding %q", name)
}

func normalizeCharset(name string) string {
	return strings.ToLower(strings.NewReplacer(" ", "", "-", "", "_", "").Replace(name))
}
