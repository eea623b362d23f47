package analysis

import (
	"github.com/ironsheep/room-analyzer-mcp/internal/detection"
)

// Room type names produced by ClassifyRoom.
const (
	RoomBedroom      = "Bedroom"
	RoomKitchen      = "Kitchen"
	RoomLivingRoom   = "Living Room"
	RoomDiningRoom   = "Dining Room"
	RoomBathroom     = "Bathroom"
	RoomHomeOffice   = "Home Office"
	RoomGeneralSpace = "General Space"
)

// RoomType is the classified room category with its fixed confidence.
type RoomType struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// Style is the classified design style with its fixed confidence.
type Style struct {
	Style      string  `json:"style"`
	Confidence float64 `json:"confidence"`
}

// labelSet answers membership questions over detection labels.
type labelSet map[string]bool

func newLabelSet(objects []detection.DetectedObject) labelSet {
	set := make(labelSet, len(objects))
	for _, o := range objects {
		set[o.Label] = true
	}
	return set
}

func (s labelSet) hasAny(labels ...string) bool {
	for _, l := range labels {
		if s[l] {
			return true
		}
	}
	return false
}

// roomRule pairs a predicate with the result it yields. Rules are evaluated
// in order and the first match wins; there is no blending of scores.
type roomRule struct {
	match  func(labelSet) bool
	result RoomType
}

var roomRules = []roomRule{
	{func(s labelSet) bool { return s.hasAny("bed") }, RoomType{RoomBedroom, 0.95}},
	{func(s labelSet) bool { return s.hasAny("refrigerator", "microwave", "oven", "sink") }, RoomType{RoomKitchen, 0.90}},
	{func(s labelSet) bool { return s.hasAny("couch", "tv") }, RoomType{RoomLivingRoom, 0.85}},
	{func(s labelSet) bool { return s.hasAny("dining table") }, RoomType{RoomDiningRoom, 0.80}},
	// "sink" never reaches this rule; the kitchen rule claims it first.
	{func(s labelSet) bool { return s.hasAny("toilet", "sink") }, RoomType{RoomBathroom, 0.85}},
	{func(s labelSet) bool { return s.hasAny("laptop", "keyboard", "mouse") }, RoomType{RoomHomeOffice, 0.75}},
}

var fallbackRoom = RoomType{RoomGeneralSpace, 0.60}

// ClassifyRoom maps detection labels to a room category.
func ClassifyRoom(objects []detection.DetectedObject) RoomType {
	labels := newLabelSet(objects)
	for _, rule := range roomRules {
		if rule.match(labels) {
			return rule.result
		}
	}
	return fallbackRoom
}

type styleRule struct {
	match  func(labels labelSet, count int) bool
	result Style
}

var styleRules = []styleRule{
	{func(s labelSet, n int) bool { return s.hasAny("tv") && n < 8 }, Style{"Modern/Minimalist", 0.80}},
	{func(s labelSet, _ int) bool { return s.hasAny("book", "vase") }, Style{"Traditional/Classic", 0.70}},
	{func(_ labelSet, n int) bool { return n > 10 }, Style{"Eclectic/Maximalist", 0.65}},
}

var fallbackStyle = Style{"Contemporary", 0.60}

// ClassifyStyle maps detection labels and the detection count to a design style.
func ClassifyStyle(objects []detection.DetectedObject) Style {
	labels := newLabelSet(objects)
	for _, rule := range styleRules {
		if rule.match(labels, len(objects)) {
			return rule.result
		}
	}
	return fallbackStyle
}
