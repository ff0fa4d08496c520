package models

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/titansafe/timetable/internal/timex"
)

// Section names as stored in configuration documents.
const (
	SectionGlobalHours = "globalHoraires"
	SectionGates       = "portesHoraires"
	SectionParkings    = "parkingsHoraires"
	SectionCampsites   = "campingsHoraires"
	SectionHospitality = "hospisHoraires"
)

// sectionOrder is the order in which sections are compiled.
var sectionOrder = []string{
	SectionGlobalHours,
	SectionGates,
	SectionParkings,
	SectionCampsites,
	SectionHospitality,
}

// Section is one typed category of a configuration document. The set of
// implementations is closed: *GlobalHours, *Gates, *Parkings, *Campsites and
// *Hospitality.
type Section interface {
	SectionName() string
	isSection()
}

// SectionError records a section that could not be decoded.
type SectionError struct {
	Name string
	Err  error
}

// ConfigurationDocument is the scheduling configuration of one event edition.
type ConfigurationDocument struct {
	Event    string
	Year     string
	Sections []Section

	// Unknown lists section names present in the document but not compiled.
	Unknown []string
	// Invalid lists sections whose payload did not match the expected shape.
	Invalid []SectionError
}

type configurationWire struct {
	Event    string                     `json:"event"`
	Year     json.RawMessage            `json:"year"`
	Data     map[string]json.RawMessage `json:"data"`
	Sections map[string]json.RawMessage `json:"sections"`
}

// UnmarshalJSON decodes each known section into its typed record. A section
// with a bad shape is recorded in Invalid instead of failing the document.
func (c *ConfigurationDocument) UnmarshalJSON(b []byte) error {
	var w configurationWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	year, err := decodeString(w.Year)
	if err != nil {
		return fmt.Errorf("field %q: %w", "year", err)
	}

	*c = ConfigurationDocument{Event: w.Event, Year: year}

	raw := w.Data
	if raw == nil {
		raw = w.Sections
	}

	for _, name := range sectionOrder {
		payload, ok := raw[name]
		if !ok || isNull(payload) {
			continue
		}
		s, err := decodeSection(name, payload)
		if err != nil {
			c.Invalid = append(c.Invalid, SectionError{Name: name, Err: err})
			continue
		}
		c.Sections = append(c.Sections, s)
	}

	for name := range raw {
		if !knownSection(name) {
			c.Unknown = append(c.Unknown, name)
		}
	}
	sort.Strings(c.Unknown)
	return nil
}

// MarshalJSON writes the document back in its stored shape.
func (c ConfigurationDocument) MarshalJSON() ([]byte, error) {
	data := make(map[string]any, len(c.Sections))
	for _, s := range c.Sections {
		data[s.SectionName()] = s
	}
	return json.Marshal(map[string]any{
		"event": c.Event,
		"year":  c.Year,
		"data":  data,
	})
}

func knownSection(name string) bool {
	for _, n := range sectionOrder {
		if n == name {
			return true
		}
	}
	return false
}

func decodeSection(name string, payload json.RawMessage) (Section, error) {
	var s Section
	switch name {
	case SectionGlobalHours:
		s = &GlobalHours{}
	case SectionGates:
		s = &Gates{}
	case SectionParkings:
		s = &Parkings{}
	case SectionCampsites:
		s = &Campsites{}
	case SectionHospitality:
		s = &Hospitality{}
	default:
		return nil, fmt.Errorf("unknown section %q", name)
	}
	if err := json.Unmarshal(payload, s); err != nil {
		return nil, err
	}
	return s, nil
}

// DailyHours is a dated opening window of the global hours section.
type DailyHours struct {
	ID        string `json:"id,omitempty"`
	Date      string `json:"date"`
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
	Is24h     bool   `json:"is24h,omitempty"`
	Closed    bool   `json:"closed,omitempty"`
}

// Period is a span between two absolute instants (ISO 8601).
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DateRangeHours applies the same daily window to every date of a range.
type DateRangeHours struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
}

// GlobalHours holds the event-wide schedule items.
type GlobalHours struct {
	Center        []DailyHours    `json:"center,omitempty"`
	Dates         []DailyHours    `json:"dates,omitempty"`
	Demontage     *Period         `json:"demontage,omitempty"`
	EndBadge      string          `json:"endBadge,omitempty"`
	HelpDesk      *DateRangeHours `json:"helpDesk,omitempty"`
	Montage       *Period         `json:"montage,omitempty"`
	PaddockScan   string          `json:"paddockScan,omitempty"`
	PCOrga        []DailyHours    `json:"pcOrga,omitempty"`
	PCAuthorities []DailyHours    `json:"pcAuthorities,omitempty"`
	Scan          string          `json:"scan,omitempty"`
}

func (*GlobalHours) SectionName() string { return SectionGlobalHours }
func (*GlobalHours) isSection()          {}

// Window is an opening window of a gate, parking or campsite day.
type Window struct {
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
	Is24h  bool   `json:"is24h,omitempty"`
	Closed bool   `json:"closed,omitempty"`
}

// Valid reports whether the window carries both times and is neither
// flagged 24-hour nor closed.
func (w *Window) Valid() bool {
	return w != nil && w.Open != "" && w.Close != "" && !w.Is24h && !w.Closed
}

// Continuous reports whether the window is flagged 24-hour.
func (w *Window) Continuous() bool {
	return w != nil && w.Is24h
}

// SameHours reports whether both windows open and close at the same times.
// "8:00" and "08:00" are the same time.
func (w *Window) SameHours(o *Window) bool {
	if w == nil || o == nil {
		return false
	}
	return sameClock(w.Open, o.Open) && sameClock(w.Close, o.Close)
}

func sameClock(a, b string) bool {
	ca, errA := timex.ParseClock(a)
	cb, errB := timex.ParseClock(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return ca == cb
}

// SplitDay is a dated entry carrying an organisation and a public window.
type SplitDay struct {
	Date         string  `json:"date"`
	Organisation *Window `json:"organisation,omitempty"`
	Public       *Window `json:"public,omitempty"`
}

// Gate is one access gate of the event.
type Gate struct {
	Name  string     `json:"-"`
	ID    string     `json:"id,omitempty"`
	Dates []SplitDay `json:"dates"`
}

// Gates is keyed by gate name in stored documents; it is held sorted by name.
type Gates struct {
	Items []Gate
}

func (*Gates) SectionName() string { return SectionGates }
func (*Gates) isSection()          {}

func (g *Gates) UnmarshalJSON(b []byte) error {
	var byName map[string]Gate
	if err := json.Unmarshal(b, &byName); err != nil {
		return err
	}
	g.Items = make([]Gate, 0, len(byName))
	for name, gate := range byName {
		gate.Name = name
		g.Items = append(g.Items, gate)
	}
	sort.Slice(g.Items, func(i, j int) bool { return g.Items[i].Name < g.Items[j].Name })
	return nil
}

func (g Gates) MarshalJSON() ([]byte, error) {
	byName := make(map[string]Gate, len(g.Items))
	for _, gate := range g.Items {
		byName[gate.Name] = gate
	}
	return json.Marshal(byName)
}

// Parking is one parking lot.
type Parking struct {
	ID    string     `json:"id,omitempty"`
	Name  string     `json:"name"`
	Dates []SplitDay `json:"dates"`
}

// Parkings is stored as a list.
type Parkings struct {
	Items []Parking
}

func (*Parkings) SectionName() string { return SectionParkings }
func (*Parkings) isSection()          {}

func (p *Parkings) UnmarshalJSON(b []byte) error { return json.Unmarshal(b, &p.Items) }
func (p Parkings) MarshalJSON() ([]byte, error)  { return json.Marshal(p.Items) }

// CampsiteDay only carries a public window; Is24h marks the whole day as
// continuously open.
type CampsiteDay struct {
	Date   string  `json:"date"`
	Is24h  bool    `json:"is24h,omitempty"`
	Public *Window `json:"public,omitempty"`
}

// Continuous reports whether the day is open around the clock.
func (d CampsiteDay) Continuous() bool {
	return d.Is24h || d.Public.Continuous()
}

// Campsite is one campsite ("aire d'accueil").
type Campsite struct {
	ID    string        `json:"id,omitempty"`
	Name  string        `json:"name"`
	Dates []CampsiteDay `json:"dates"`
}

// Campsites is stored as a list.
type Campsites struct {
	Items []Campsite
}

func (*Campsites) SectionName() string { return SectionCampsites }
func (*Campsites) isSection()          {}

func (c *Campsites) UnmarshalJSON(b []byte) error { return json.Unmarshal(b, &c.Items) }
func (c Campsites) MarshalJSON() ([]byte, error)  { return json.Marshal(c.Items) }

// HospitalityDay is a single dated window.
type HospitalityDay struct {
	Date      string `json:"date"`
	OpenTime  string `json:"openTime,omitempty"`
	CloseTime string `json:"closeTime,omitempty"`
	Is24h     bool   `json:"is24h,omitempty"`
}

// HospitalityArea is one hospitality area.
type HospitalityArea struct {
	ID    string           `json:"id,omitempty"`
	Name  string           `json:"name"`
	Dates []HospitalityDay `json:"dates"`
}

// Hospitality is stored as a list.
type Hospitality struct {
	Items []HospitalityArea
}

func (*Hospitality) SectionName() string { return SectionHospitality }
func (*Hospitality) isSection()          {}

func (h *Hospitality) UnmarshalJSON(b []byte) error { return json.Unmarshal(b, &h.Items) }
func (h Hospitality) MarshalJSON() ([]byte, error)  { return json.Marshal(h.Items) }
