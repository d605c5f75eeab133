package models

import (
	"encoding/base64"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	json "github.com/goccy/go-json"
)

// DayOrdinal converts a timestamp to its UTC calendar day number since the
// Unix epoch. Streak comparisons are calendar-day based, not 24h windows.
func DayOrdinal(t time.Time) int {
	return int(t.UTC().Unix() / 86400)
}

// ActiveDays tracks the set of distinct UTC days a user was active on,
// backed by a roaring bitmap. Not safe for concurrent use; user documents
// are only mutated inside UserStore.Update on a private copy.
type ActiveDays struct {
	bm *roaring.Bitmap
}

func NewActiveDays() *ActiveDays {
	return &ActiveDays{bm: roaring.New()}
}

func (d *ActiveDays) Mark(day int) {
	if day < 0 {
		return
	}
	d.bm.Add(uint32(day))
}

func (d *ActiveDays) Contains(day int) bool {
	if day < 0 {
		return false
	}
	return d.bm.Contains(uint32(day))
}

// Count returns the number of distinct active days.
func (d *ActiveDays) Count() int {
	return int(d.bm.GetCardinality())
}

func (d *ActiveDays) Clone() *ActiveDays {
	return &ActiveDays{bm: d.bm.Clone()}
}

// MarshalJSON encodes the bitmap as base64 of its binary form, so the
// snapshot file stays valid JSON.
func (d *ActiveDays) MarshalJSON() ([]byte, error) {
	buf, err := d.bm.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return json.Marshal(base64.StdEncoding.EncodeToString(buf))
}

func (d *ActiveDays) UnmarshalJSON(data []byte) error {
	var encoded string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return err
	}
	buf, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return err
	}
	bm := roaring.New()
	if len(buf) > 0 {
		if err := bm.UnmarshalBinary(buf); err != nil {
			return err
		}
	}
	d.bm = bm
	return nil
}
