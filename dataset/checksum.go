package dataset

import (
	"fmt"

	"github.com/minio/highwayhash"
)

var checksumKey = []byte("corpus1loader2checksum3key4abcde")

// Checksum returns a stable content checksum for asset provenance rows.
func Checksum(data []byte) (string, error) {
	h, err := highwayhash.New64(checksumKey)
	if err != nil {
		return "", err
	}
	if _, err = h.Write(data); err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}
