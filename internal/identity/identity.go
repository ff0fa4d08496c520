// Package identity derives content-addressed vignette identifiers. An id is
// a pure function of a seed built from the vignette's semantic key, so an
// unchanged configuration always yields the same ids.
package identity

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Namespace scopes every vignette id (UUID v5 namespace).
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:titansafe:timetable:vignette"))

const separator = "|"

// MakeID returns the UUID v5 of seed within Namespace.
func MakeID(seed string) string {
	return uuid.NewSHA1(Namespace, []byte(seed)).String()
}

// PairSeed is the seed of a generated vignette: the configuration entry it
// came from, the date it is filed under and its activity.
func PairSeed(sourceKey, date, activity string) string {
	return strings.Join([]string{sourceKey, date, activity}, separator)
}

// DocumentSeed is the fallback seed for a vignette that reaches the merge
// step without an id.
func DocumentSeed(event, year, date, activity, place, sourceKey string) string {
	return strings.Join([]string{event, year, date, activity, place, sourceKey}, separator)
}

// DatedKey is the source key of a per-day entry that has no id of its own.
func DatedKey(item, date string) string {
	return item + ":" + date
}

// legacyDatedKey matches "<item>_<date>_<openTime>", the per-day key written
// before ids were content-addressed. The open time may be empty.
var legacyDatedKey = regexp.MustCompile(`^([A-Za-z]+)_(\d{4}-\d{2}-\d{2})_(?:\d{1,2}:\d{2})?$`)

// UpgradeKey returns the current form of a legacy per-day source key, and
// false when key is not one.
func UpgradeKey(key string) (string, bool) {
	m := legacyDatedKey.FindStringSubmatch(key)
	if m == nil {
		return key, false
	}
	return DatedKey(m[1], m[2]), true
}
