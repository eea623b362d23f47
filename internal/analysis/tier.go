package analysis

import (
	"encoding/json"
	"fmt"
)

// Tier is the shared four-step quality scale. The integer value of each tier
// is what the overall score averages, so the constants must stay 1..4.
type Tier int

const (
	Poor      Tier = 1
	Fair      Tier = 2
	Good      Tier = 3
	Excellent Tier = 4
)

var tierNames = map[Tier]string{
	Poor:      "poor",
	Fair:      "fair",
	Good:      "good",
	Excellent: "excellent",
}

// String returns the lowercase tier name.
func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// Value returns the tier's score contribution: poor=1 … excellent=4.
func (t Tier) Value() int {
	return int(t)
}

// Index returns the zero-based ordinal: poor=0 … excellent=3.
func (t Tier) Index() int {
	return int(t) - 1
}

// Valid reports whether t is one of the four defined tiers.
func (t Tier) Valid() bool {
	_, ok := tierNames[t]
	return ok
}

// ParseTier converts a lowercase tier name back into a Tier.
func ParseTier(s string) (Tier, error) {
	for t, name := range tierNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown tier %q", s)
}

// MarshalJSON encodes the tier as its name.
func (t Tier) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid tier %d", int(t))
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a tier name.
func (t *Tier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("tier: %w", err)
	}
	parsed, err := ParseTier(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
