// Package meta extracts acquisition metadata from uploaded image bytes.
// Medical captures frequently carry EXIF blocks naming the device, software
// and acquisition time; the pipeline surfaces these in reports but never
// requires them.
package meta

import (
	exif "github.com/dsoprea/go-exif/v3"
)

// Tag is one piece of acquisition metadata.
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// interesting maps EXIF tag names to report labels. Everything else is
// dropped.
var interesting = map[string]string{
	"DateTimeOriginal": "Acquired",
	"DateTime":         "Modified",
	"Make":             "Device vendor",
	"Model":            "Device model",
	"Software":         "Software",
}

// Extract pulls the interesting EXIF tags out of raw image bytes.
// Images without EXIF data, or with corrupt EXIF blocks, yield nil;
// missing metadata is not an error.
func Extract(imageData []byte) []Tag {
	rawExif, err := exif.SearchAndExtractExif(imageData)
	if err != nil || rawExif == nil {
		return nil
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil
	}

	var tags []Tag
	for _, entry := range entries {
		label, ok := interesting[entry.TagName]
		if !ok || entry.Formatted == "" {
			continue
		}
		tags = append(tags, Tag{Name: label, Value: entry.Formatted})
	}
	return tags
}
