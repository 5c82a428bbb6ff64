package dataset

import (
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Record is a raw data file record with its fields in document order.
type Record = orderedmap.OrderedMap[string, any]

// NewRecord returns an empty record.
func NewRecord() *Record {
	return orderedmap.New[string, any]()
}

// Rating is a 0–10 score. Zero means unrated.
type Rating float64

// Rated reports whether the rating carries a usable positive value.
func (r Rating) Rated() bool {
	return r > 0
}

// Float returns the rating as a float64.
func (r Rating) Float() float64 {
	return float64(r)
}

// String formats the rating with one decimal, or "N/D" when unrated.
func (r Rating) String() string {
	if !r.Rated() {
		return "N/D"
	}
	return strconv.FormatFloat(float64(r), 'f', 1, 64)
}

// Component is a motor, battery, brake set or suspension record.
type Component struct {
	ID          string   `mapstructure:"id" json:"id"`
	Position    *int     `mapstructure:"posizione" json:"posizione,omitempty"`
	Brand       string   `mapstructure:"marca" json:"marca"`
	Model       string   `mapstructure:"modello" json:"modello"`
	Rating      Rating   `mapstructure:"valutazione" json:"valutazione"`
	Type        string   `mapstructure:"tipo" json:"tipo,omitempty"`
	Torque      *float64 `mapstructure:"coppia_max_nm" json:"coppia_max_nm,omitempty"`
	Weight      *float64 `mapstructure:"peso_kg" json:"peso_kg,omitempty"`
	PeakPower   *float64 `mapstructure:"potenza_picco_w" json:"potenza_picco_w,omitempty"`
	Capacity    *float64 `mapstructure:"capacita_wh" json:"capacita_wh,omitempty"`
	Pistons     *float64 `mapstructure:"numero_pistoncini" json:"numero_pistoncini,omitempty"`
	Travel      *float64 `mapstructure:"escursione_mm" json:"escursione_mm,omitempty"`
	ReleaseYear *int     `mapstructure:"anno_rilascio" json:"anno_rilascio,omitempty"`
	Note        string   `mapstructure:"note" json:"note,omitempty"`
	Analysis    string   `mapstructure:"analisi" json:"analisi,omitempty"`
	SourceURL   string   `mapstructure:"fonte_url" json:"fonte_url,omitempty"`

	Category Category `mapstructure:"-" json:"-"`
	Fields   *Record  `mapstructure:"-" json:"-"`
}

// Name is "marca modello", trimmed when either part is missing.
func (c *Component) Name() string {
	return strings.TrimSpace(c.Brand + " " + c.Model)
}

// Text returns the analysis text, preferring note over analisi.
func (c *Component) Text() string {
	if c.Note != "" {
		return c.Note
	}
	return c.Analysis
}

// EBike is a complete bike referencing one component per role.
type EBike struct {
	ID       string `mapstructure:"id" json:"id"`
	Position *int   `mapstructure:"posizione" json:"posizione,omitempty"`
	Brand    string `mapstructure:"marca" json:"marca,omitempty"`
	Model    string `mapstructure:"modello" json:"modello"`
	Class    string `mapstructure:"categoria" json:"categoria,omitempty"`
	Year     *int   `mapstructure:"anno" json:"anno,omitempty"`
	MotorID  string `mapstructure:"id_motore" json:"id_motore,omitempty"`
	BattID   string `mapstructure:"id_batteria" json:"id_batteria,omitempty"`
	BrakesID string `mapstructure:"id_freni" json:"id_freni,omitempty"`
	ForkID   string `mapstructure:"id_forcella" json:"id_forcella,omitempty"`
	ShockID  string `mapstructure:"id_ammortizzatore" json:"id_ammortizzatore,omitempty"`
	Analysis string `mapstructure:"analisi_completa" json:"analisi_completa,omitempty"`

	Fields *Record `mapstructure:"-" json:"-"`
}

// ComponentID returns the referenced component id for the role, or "".
func (b *EBike) ComponentID(role Role) string {
	switch role {
	case RoleMotor:
		return b.MotorID
	case RoleBattery:
		return b.BattID
	case RoleBrakes:
		return b.BrakesID
	case RoleFork:
		return b.ForkID
	case RoleShock:
		return b.ShockID
	default:
		return ""
	}
}

// Name is the model, prefixed with the brand when present.
func (b *EBike) Name() string {
	return strings.TrimSpace(b.Brand + " " + b.Model)
}

// numericKeys are coerced before decoding so that "7,5", "N/A" and null do
// not fail the whole record.
var numericKeys = []string{
	"posizione",
	"valutazione",
	"coppia_max_nm",
	"peso_kg",
	"potenza_picco_w",
	"capacita_wh",
	"numero_pistoncini",
	"escursione_mm",
	"anno_rilascio",
	"anno",
}

// ParseNumber reads a JSON number or a numeric string. Comma decimals are
// accepted. ok is false for anything else.
func ParseNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), ",", ".")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// plain flattens a record into a map for decoding, coercing numeric fields
// and dropping the ones that do not parse.
func plain(rec *Record) map[string]any {
	m := make(map[string]any, rec.Len())
	for pair := rec.Oldest(); pair != nil; pair = pair.Next() {
		m[pair.Key] = pair.Value
	}
	for _, k := range numericKeys {
		v, ok := m[k]
		if !ok {
			continue
		}
		f, ok := ParseNumber(v)
		if !ok {
			delete(m, k)
			continue
		}
		m[k] = f
	}
	return m
}
