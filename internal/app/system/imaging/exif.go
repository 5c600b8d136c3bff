// internal/app/system/imaging/exif.go
package imaging

import (
	"bytes"
	"sync"
	"time"

	"github.com/averywhitlock/photocove/internal/domain/models"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
)

var registerParsersOnce sync.Once

// ExtractMetadata pulls capture time and GPS position from the image's EXIF
// block. Extraction is best effort: images without EXIF (screenshots, edited
// exports, stripped uploads) yield nils, never an error.
func ExtractMetadata(data []byte) (takenAt *time.Time, loc *models.GeoPoint) {
	registerParsersOnce.Do(func() {
		exif.RegisterParsers(mknote.All...)
	})

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil
	}

	if t, err := x.DateTime(); err == nil {
		utc := t.UTC()
		takenAt = &utc
	}

	if lat, long, err := x.LatLong(); err == nil {
		loc = &models.GeoPoint{Latitude: lat, Longitude: long}
		if tag, err := x.Get(exif.GPSAltitude); err == nil {
			if num, den, err := tag.Rat2(0); err == nil && den != 0 {
				alt := float64(num) / float64(den)
				loc.Altitude = &alt
			}
		}
	}
	return takenAt, loc
}
