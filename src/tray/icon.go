package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"runtime"
)

const iconSize = 32

var (
	frameColor = color.NRGBA{R: 0x00, G: 0x78, B: 0xd4, A: 0xff}
	textColor  = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
)

// drawIcon renders a dashed selection frame with two text lines inside.
func drawIcon() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	for i := 2; i < iconSize-2; i++ {
		if (i/3)%2 == 0 {
			for _, w := range []int{2, 3} {
				img.SetNRGBA(i, w, frameColor)
				img.SetNRGBA(i, iconSize-1-w, frameColor)
				img.SetNRGBA(w, i, frameColor)
				img.SetNRGBA(iconSize-1-w, i, frameColor)
			}
		}
	}
	for _, y := range []int{12, 13, 19, 20} {
		for x := 8; x < iconSize-8; x++ {
			img.SetNRGBA(x, y, textColor)
		}
	}
	return img
}

func iconPNG() []byte {
	var buf bytes.Buffer
	_ = png.Encode(&buf, drawIcon())
	return buf.Bytes()
}

// pngToICO wraps PNG data in a single-image ICO container.
func pngToICO(data []byte, size int) []byte {
	var buf bytes.Buffer
	// ICONDIR: reserved, type 1 (icon), one image.
	_ = binary.Write(&buf, binary.LittleEndian, [3]uint16{0, 1, 1})
	dim := byte(size)
	if size >= 256 {
		dim = 0
	}
	buf.Write([]byte{dim, dim, 0, 0})
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))  // planes
	_ = binary.Write(&buf, binary.LittleEndian, uint16(32)) // bits per pixel
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(data)))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(6+16))
	buf.Write(data)
	return buf.Bytes()
}

// Icon returns the tray icon in the format the platform tray expects.
func Icon() []byte {
	data := iconPNG()
	if runtime.GOOS == "windows" {
		return pngToICO(data, iconSize)
	}
	return data
}
