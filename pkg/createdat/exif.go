package createdat

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

var (
	// ErrMetadataNotFound means the file has readable metadata but no date tag.
	ErrMetadataNotFound = errors.New("embedded date not found")

	// ErrMetadataUnreadable means the file has no parsable metadata block:
	// unsupported format, corrupt structure or a non-image file.
	ErrMetadataUnreadable = errors.New("embedded metadata unreadable")
)

// MetadataReader returns the raw embedded capture date text of a file.
//
// Implementations return ErrMetadataNotFound or ErrMetadataUnreadable
// (possibly wrapped) for the expected failure kinds. Any other error is
// treated as unexpected by the Resolver, but resolution still falls through
// to the next source.
type MetadataReader interface {
	ReadEmbeddedDate(path string) (string, error)
}

// MetadataReaderFunc adapts a function to MetadataReader.
type MetadataReaderFunc func(path string) (string, error)

func (f MetadataReaderFunc) ReadEmbeddedDate(path string) (string, error) {
	return f(path)
}

// exifHeaderBytes caps how much of a file is handed to the EXIF decoder.
// JPEG APP1 and TIFF IFDs live at the start of the file, and the decoder
// would otherwise scan or buffer whole videos looking for a marker.
const exifHeaderBytes = 1 << 20

// ExifReader reads the EXIF DateTimeOriginal tag.
type ExifReader struct{}

func (ExifReader) ReadEmbeddedDate(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return readDateTimeOriginal(io.LimitReader(f, exifHeaderBytes))
}

func readDateTimeOriginal(r io.Reader) (string, error) {
	x, err := exif.Decode(r)
	if err != nil {
		// Non-critical errors leave a partially decoded tree that may still
		// carry the tag.
		if x == nil || exif.IsCriticalError(err) {
			return "", fmt.Errorf("%w: %v", ErrMetadataUnreadable, err)
		}
	}

	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		return "", ErrMetadataNotFound
	}
	s, err := tag.StringVal()
	if err != nil {
		return "", fmt.Errorf("%w: DateTimeOriginal: %v", ErrMetadataUnreadable, err)
	}
	s = strings.TrimRight(s, "\x00 ")
	if s == "" {
		return "", ErrMetadataNotFound
	}
	return s, nil
}
