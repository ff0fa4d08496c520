package merge

import (
	"strings"

	"github.com/titansafe/timetable/internal/common"
	"github.com/titansafe/timetable/internal/identity"
	"github.com/titansafe/timetable/internal/models"
	"github.com/titansafe/timetable/internal/vignette"
)

// legacyOrigins maps origin values written by earlier versions.
var legacyOrigins = map[string]string{
	"paramétrage": common.OriginConfig,
	"parametrage": common.OriginConfig,
	"manual":      common.OriginManualEdit,
}

var legacyPrefixes = []struct{ old, current string }{
	{"Ouverture ", vignette.OpeningPrefix},
	{"Fermeture ", vignette.ClosingPrefix},
}

// Normalize rewrites legacy values of v in place, files it under date when
// it has none, defaults its preparation status and gives it a fallback id
// when it has none. It reports whether v had no id.
func Normalize(v *models.Vignette, event, year, date string) bool {
	if v.Date == "" {
		v.Date = date
	}
	if o, ok := legacyOrigins[v.Origin]; ok {
		v.Origin = o
	}
	for _, p := range legacyPrefixes {
		if strings.HasPrefix(v.Activity, p.old) {
			v.Activity = p.current + strings.TrimPrefix(v.Activity, p.old)
			break
		}
	}
	if key, ok := identity.UpgradeKey(v.SourceKey); ok {
		v.SourceKey = key
	}
	if v.PreparationStatus == "" {
		v.PreparationStatus = common.PreparationNone
	}
	if v.ID != "" {
		return false
	}
	v.ID = identity.MakeID(identity.DocumentSeed(event, year, v.Date, v.Activity, v.Place, v.SourceKey))
	return true
}
