// Package createdat infers the year and month a media file was captured.
//
// Resolution follows a fixed priority order:
//  1. embedded metadata (EXIF DateTimeOriginal)
//  2. the file name
//  3. the parent directory path
//
// All three sources are parsed by the same date grammar, ParseDate.
package createdat
