package ticket

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const pngSize = 512

// RenderQR encodes the signed entry token as a PNG QR image. High error
// correction so damaged or partially occluded prints still scan at the gate.
func RenderQR(token string) ([]byte, error) {
	if token == "" {
		return nil, fmt.Errorf("empty ticket token")
	}

	png, err := qrcode.Encode(token, qrcode.High, pngSize)
	if err != nil {
		return nil, fmt.Errorf("failed to render ticket QR: %w", err)
	}
	return png, nil
}
