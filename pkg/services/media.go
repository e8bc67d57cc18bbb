package services

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"portfolio-cms/pkg/models"

	"github.com/gabriel-vasile/mimetype"
)

const (
	SlotCard     = "card"
	SlotBG       = "bg"
	SlotGallery  = "gallery"
	SlotDocument = "document"
)

var ErrUnsupportedMedia = errors.New("unsupported media")

// DefaultMaxUpload bounds one uploaded file. The contents API rejects
// larger blobs.
const DefaultMaxUpload = 25 << 20

// Media turns uploaded files into inline assets of the draft.
type Media struct {
	MaxSize int64
}

func IsMediaSlot(slot string) bool {
	switch slot {
	case SlotCard, SlotBG, SlotGallery, SlotDocument:
		return true
	}
	return false
}

// Ingest reads an upload and returns it as a data URI asset. The content
// type is detected from the bytes. Image slots only accept images.
func (m Media) Ingest(header *multipart.FileHeader, slot string) (models.Asset, error) {
	if !IsMediaSlot(slot) {
		return models.Asset{}, fmt.Errorf("%w: unknown slot %q", ErrUnsupportedMedia, slot)
	}
	max := m.MaxSize
	if max <= 0 {
		max = DefaultMaxUpload
	}
	if header.Size > max {
		return models.Asset{}, fmt.Errorf("%w: %s is larger than %d bytes", ErrUnsupportedMedia, header.Filename, max)
	}

	src, err := header.Open()
	if err != nil {
		return models.Asset{}, err
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, max+1))
	if err != nil {
		return models.Asset{}, err
	}
	if int64(len(data)) > max {
		return models.Asset{}, fmt.Errorf("%w: %s is larger than %d bytes", ErrUnsupportedMedia, header.Filename, max)
	}
	return NewAsset(header.Filename, data, slot)
}

// NewAsset wraps raw bytes as an asset for slot.
func NewAsset(name string, data []byte, slot string) (models.Asset, error) {
	mt := mimetype.Detect(data)
	if slot != SlotDocument && !strings.HasPrefix(mt.String(), "image/") {
		return models.Asset{}, fmt.Errorf("%w: %s is %s, not an image", ErrUnsupportedMedia, name, mt.String())
	}

	name = strings.ReplaceAll(filepath.Base(name), " ", "_")
	if name == "." || name == string(filepath.Separator) {
		name = "upload"
	}
	if filepath.Ext(name) == "" {
		name += mt.Extension()
	}
	mime, _, _ := strings.Cut(mt.String(), ";")
	return models.Asset{
		Name: name,
		MIME: mime,
		Data: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}
