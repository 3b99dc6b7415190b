package anlz

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"path"
	"strings"
)

// pathHash returns the little-endian-truncated first four bytes of
// MD5(lowercase, forward-slash-normalised absolute audio path), which
// spec.md §4.6/§9 (Open Question 4) designates as the authoritative rule
// even though original_source/exporter/cdj_anlz_exporter.py instead
// hashes a track-id string — see DESIGN.md.
func pathHash(absAudioPath string) uint32 {
	canon := strings.ToLower(strings.ReplaceAll(absAudioPath, `\`, "/"))
	sum := md5.Sum([]byte(canon))
	return binary.LittleEndian.Uint32(sum[0:4])
}

// AnalysisDir returns the USBANLZ subdirectory for absAudioPath, e.g.
// "P1A2/1A2B3C4D" for a hash of 0x1A2B3C4D (spec.md §8 scenario S3).
func AnalysisDir(absAudioPath string) string {
	hex := fmt.Sprintf("%08X", pathHash(absAudioPath))
	return path.Join("P"+hex[:3], hex)
}
