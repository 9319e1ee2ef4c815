package stylist

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/okian/glowplan/internal/domain/model"
)

// DecodeImage decodes a base64 payload, with or without a data: URL
// prefix, and sniffs its MIME type. Non-image payloads are rejected.
func DecodeImage(encoded string) (model.Image, error) {
	encoded = strings.TrimSpace(encoded)
	if i := strings.Index(encoded, ","); strings.HasPrefix(encoded, "data:") && i >= 0 {
		encoded = encoded[i+1:]
	}
	if encoded == "" {
		return model.Image{}, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return model.Image{}, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	img := model.Image{Data: data}
	mt, err := sniffImage(img)
	if err != nil {
		return model.Image{}, err
	}
	img.MIMEType = mt
	return img, nil
}

// sniffImage detects the MIME type from content. The declared type on the
// image, if any, is ignored.
func sniffImage(img model.Image) (string, error) {
	if len(img.Data) == 0 {
		return "", fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	mt := mimetype.Detect(img.Data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrInvalidImage, mt.String())
	}
	return mt.String(), nil
}
