package docsync

// utf16Len is the length of s in UTF-16 code units, which is the unit
// the document store uses for all indices. Runes above the basic
// multilingual plane count as two.
func utf16Len(s string) int64 {
	var n int64
	for _, r := range s {
		if r > 0xFFFF {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// utf16Offset converts a byte offset within s (as produced by the
// regexp package) into a UTF-16 code-unit offset.
func utf16Offset(s string, byteOff int) int64 {
	return utf16Len(s[:byteOff])
}
