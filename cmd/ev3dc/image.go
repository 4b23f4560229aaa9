package main

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"strconv"

	"github.com/wippyai/ev3dc/display"
)

// loadBitmap reads an ASCII PBM (P1) or PNG file. PNG pixels darker than
// threshold are set.
func loadBitmap(path string, threshold uint8) (display.Bitmap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if bytes.HasPrefix(data, []byte("P1")) {
		bm, err := parsePBM(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return bm, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return display.FromImage(img, threshold)
}

// parsePBM parses a plain PBM. Pixels may be separated by whitespace or
// packed together; comments run from # to the end of the line.
func parsePBM(data []byte) (display.Bitmap, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)

	var (
		header []string
		pixels = make(display.Bitmap, 0, display.Pixels)
	)
	for sc.Scan() {
		line := sc.Bytes()
		if i := bytes.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, field := range bytes.Fields(line) {
			if len(header) < 3 {
				header = append(header, string(field))
				continue
			}
			for _, c := range field {
				switch c {
				case '0':
					pixels = append(pixels, 0)
				case '1':
					pixels = append(pixels, 1)
				default:
					return nil, fmt.Errorf("pbm: unexpected byte %q", c)
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("pbm: %w", err)
	}

	if len(header) < 3 || header[0] != "P1" {
		return nil, fmt.Errorf("pbm: missing P1 header")
	}
	w, err := strconv.Atoi(header[1])
	if err != nil {
		return nil, fmt.Errorf("pbm: width: %w", err)
	}
	h, err := strconv.Atoi(header[2])
	if err != nil {
		return nil, fmt.Errorf("pbm: height: %w", err)
	}
	if w != display.Width || h != display.Height {
		return nil, fmt.Errorf("pbm: image is %dx%d, want %dx%d", w, h, display.Width, display.Height)
	}
	if err := pixels.Validate(); err != nil {
		return nil, err
	}
	return pixels, nil
}
