package qr

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

const (
	imageSize     = 256
	dataURLPrefix = "data:image/png;base64,"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

var (
	ErrNotDataURL     = errors.New("qr payload is not a PNG data URL")
	ErrInvalidPayload = errors.New("qr payload must be a PNG data URL or text that fits in a QR code")
)

// TicketPayload is the text encoded into a ticket's QR image.
func TicketPayload(eventName, holderName string) string {
	return fmt.Sprintf("Event Name: %s \n Name: %s", eventName, holderName)
}

func EncodePNG(content string) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, imageSize)
}

// EncodeDataURL renders content as a PNG QR code wrapped in a data URL.
func EncodeDataURL(content string) (string, error) {
	png, err := EncodePNG(content)
	if err != nil {
		return "", fmt.Errorf("encoding qr code: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(png), nil
}

// DecodeDataURL returns the PNG bytes held in a data URL produced by EncodeDataURL.
func DecodeDataURL(dataURL string) ([]byte, error) {
	if !strings.HasPrefix(dataURL, dataURLPrefix) {
		return nil, ErrNotDataURL
	}
	return base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, dataURLPrefix))
}

// Validate reports whether payload can later be served as a QR image.
func Validate(payload string) error {
	if strings.HasPrefix(payload, dataURLPrefix) {
		data, err := DecodeDataURL(payload)
		if err != nil || !bytes.HasPrefix(data, pngMagic) {
			return ErrInvalidPayload
		}
		return nil
	}
	if _, err := qrcode.New(payload, qrcode.Medium); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
