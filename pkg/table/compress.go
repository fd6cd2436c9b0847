package table

import (
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type Compression byte

const (
	CompressionInvalid Compression = iota
	CompressionNone
	CompressionGzip
	CompressionZip
	CompressionXZ
	CompressionZ
	CompressionBZip2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZip:
		return "zip"
	case CompressionXZ:
		return "xz"
	case CompressionZ:
		return "zlib"
	case CompressionBZip2:
		return "bzip2"
	default:
		return "invalid"
	}
}

// Byte code signatures from https://stackoverflow.com/a/19127748/199475
var byteCodeSigs = map[Compression][]byte{
	CompressionGzip:  {0x1f, 0x8b, 0x08},
	CompressionZip:   {0x50, 0x4b, 0x03, 0x04},
	CompressionXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	CompressionZ:     {0x1f, 0x9d},
	CompressionBZip2: {0x42, 0x5a, 0x68},
}

var compressedExtensions = []string{".gz", ".zip", ".xz", ".z", ".bz2"}

// DetectCompression sniffs the first bytes of r against known signatures.
func DetectCompression(r io.Reader) (Compression, error) {
	buff := make([]byte, 6)
	n, err := io.ReadFull(r, buff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return CompressionInvalid, err
	}
	buff = buff[:n]

Outer:
	for c, sig := range byteCodeSigs {
		if len(buff) < len(sig) {
			continue
		}
		for position := range sig {
			if buff[position] != sig[position] {
				continue Outer
			}
		}
		return c, nil
	}

	return CompressionNone, nil
}

// openMaybeCompressed opens path and transparently decompresses it. Zip
// archives yield their first entry.
func openMaybeCompressed(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	c, err := DetectCompression(f)
	if err != nil {
		f.Close()
		return nil, pfx.Err(err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, pfx.Err(err)
	}

	var r io.Reader
	switch c {
	case CompressionGzip:
		r, err = gzip.NewReader(f)
	case CompressionZip:
		zr := zipstream.NewReader(f)
		if _, err = zr.Next(); err == nil {
			r = zr
		}
	case CompressionBZip2:
		r = bzip2.NewReader(f)
	case CompressionXZ:
		r, err = xz.NewReader(f, 0)
	case CompressionZ:
		r, err = zlib.NewReader(f)
	default:
		return f, nil
	}
	if err != nil {
		f.Close()
		return nil, pfx.Err(err)
	}

	return &stackedCloser{Reader: r, file: f}, nil
}

// stackedCloser closes the underlying file once the decompressor is done.
type stackedCloser struct {
	io.Reader
	file *os.File
}

func (s *stackedCloser) Close() error {
	if c, ok := s.Reader.(io.Closer); ok {
		c.Close()
	}
	return s.file.Close()
}

// baseExtension returns the lower-cased extension of path once any
// compression suffix is removed ("x.tsv.gz" -> ".tsv").
func baseExtension(path string) string {
	name := strings.ToLower(filepath.Base(path))
	for _, ext := range compressedExtensions {
		if strings.HasSuffix(name, ext) {
			name = strings.TrimSuffix(name, ext)
			break
		}
	}
	return filepath.Ext(name)
}
