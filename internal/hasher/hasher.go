package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// Len is the hex length stored in the manifest: the full 64-bit digest.
const Len = 16

// ContentHash returns the xxHash64 of data as lowercase hex, truncated to
// hexLen characters when 0 < hexLen < 16.
func ContentHash(data []byte, hexLen int) string {
	return format(xxhash.Sum64(data), hexLen)
}

// ContentHashReader streams r through xxHash64.
func ContentHashReader(r io.Reader, hexLen int) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return format(h.Sum64(), hexLen), nil
}

// ContentHashFile hashes the file at path without loading it whole.
func ContentHashFile(path string, hexLen int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return ContentHashReader(f, hexLen)
}

// KeyHash mixes a source hash with the parameters that produced a
// placeholder, so a cached entry is only reused for identical settings.
func KeyHash(sourceHash string, params ...int) string {
	h := xxhash.New()
	_, _ = h.WriteString(sourceHash)
	var buf [8]byte
	for _, p := range params {
		binary.LittleEndian.PutUint64(buf[:], uint64(p))
		_, _ = h.Write(buf[:])
	}
	return format(h.Sum64(), Len)
}

func format(sum uint64, hexLen int) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], sum)
	full := hex.EncodeToString(b[:])
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
