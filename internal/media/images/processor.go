package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"log/slog"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// maxPhotoDimension bounds the longest edge of a stored photo.
// Uploads are downscaled to this; smaller images are kept as-is.
const maxPhotoDimension = 800

const jpegQuality = 85

// ProcessedPhoto is the result of ingesting an uploaded photo.
type ProcessedPhoto struct {
	Hash     string // SHA256 of the stored file, for ETag validation
	BlurHash string // Placeholder hash for progressive loading
}

// Processor validates, resizes and stores uploaded teacher photos.
type Processor struct {
	storage *Storage
	logger  *slog.Logger
}

// NewProcessor creates a new Processor instance.
func NewProcessor(storage *Storage, logger *slog.Logger) *Processor {
	return &Processor{
		storage: storage,
		logger:  logger,
	}
}

// Process decodes an uploaded photo, downscales it, stores it as JPEG
// and computes its content hash and BlurHash. JPEG, PNG, GIF and WebP
// uploads are accepted.
func (p *Processor) Process(teacherID string, data []byte) (*ProcessedPhoto, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	resized := resizePhoto(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	if err := p.storage.Save(teacherID, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("save photo: %w", err)
	}

	hash, err := p.storage.Hash(teacherID)
	if err != nil {
		return nil, fmt.Errorf("compute photo hash: %w", err)
	}

	blur, err := ComputeBlurHash(resized)
	if err != nil {
		// A photo without a placeholder is still a photo.
		p.logger.Warn("failed to compute blurhash",
			"teacher_id", teacherID,
			"error", err,
		)
		blur = ""
	}

	p.logger.Debug("processed teacher photo",
		"teacher_id", teacherID,
		"format", format,
		"original_bytes", len(data),
		"stored_bytes", buf.Len(),
	)

	return &ProcessedPhoto{
		Hash:     hash,
		BlurHash: blur,
	}, nil
}

// Remove deletes a teacher's stored photo. Missing files are not an
// error.
func (p *Processor) Remove(teacherID string) error {
	return p.storage.Delete(teacherID)
}

// resizePhoto downscales an image so its longest edge fits within
// maxPhotoDimension, using CatmullRom resampling for quality.
func resizePhoto(img image.Image) image.Image {
	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	if srcWidth <= maxPhotoDimension && srcHeight <= maxPhotoDimension {
		return img
	}

	var dstWidth, dstHeight int
	if srcWidth > srcHeight {
		dstWidth = maxPhotoDimension
		dstHeight = max((srcHeight*maxPhotoDimension)/srcWidth, 1)
	} else {
		dstHeight = maxPhotoDimension
		dstWidth = max((srcWidth*maxPhotoDimension)/srcHeight, 1)
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return dst
}
