package surface

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
)

// Snapshot is an immutable, opaque capture of a Surface's full pixel
// contents at one instant. The pixels are held PNG-encoded; the encoding is
// lossless over the opaque RGBA buffer so a restore reproduces the captured
// state exactly.
type Snapshot struct {
	data   []byte
	bounds image.Rectangle
}

func encodeSnapshot(img *image.RGBA) (*Snapshot, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return &Snapshot{data: buf.Bytes(), bounds: img.Bounds()}, nil
}

// Bounds returns the extent of the captured surface.
func (s *Snapshot) Bounds() image.Rectangle { return s.bounds }

// Bytes returns a copy of the PNG-encoded pixel data, suitable for a
// user-initiated file save.
func (s *Snapshot) Bytes() []byte {
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out
}

// decode reconstructs the captured pixels. ctx is honoured at the decode
// boundaries so a superseded restore can be abandoned before its pixels are
// ever applied.
func (s *Snapshot) decode(ctx context.Context) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(s.data))
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}
