package export

import (
	"errors"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultQRSize is the edge length of the QR PNG in pixels.
const DefaultQRSize = 200

// EncodeQR renders the share link as a square PNG with medium error
// correction. A non-positive size falls back to DefaultQRSize.
func EncodeQR(link string, size int) ([]byte, error) {
	if link == "" {
		return nil, errors.New("empty share link")
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	data, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return data, nil
}
