package rating

import "math"

type Star int

const (
	Empty Star = iota
	Half
	Full
)

func (s Star) String() string {
	switch s {
	case Full:
		return "full"
	case Half:
		return "half"
	default:
		return "empty"
	}
}

const MaxStars = 5

// Stars renders a rating as exactly five symbols: floor(r) full stars, a half
// star when the fractional part is at least .5, and empty stars for the rest.
func Stars(r float64) [MaxStars]Star {
	var out [MaxStars]Star
	if math.IsNaN(r) || r <= 0 {
		return out
	}
	if r > MaxStars {
		r = MaxStars
	}

	full := int(math.Floor(r))
	for i := 0; i < full; i++ {
		out[i] = Full
	}
	if full < MaxStars && r-float64(full) >= 0.5 {
		out[full] = Half
	}
	return out
}

// Count returns the number of full, half and empty stars for r.
func Count(r float64) (full, half, empty int) {
	for _, s := range Stars(r) {
		switch s {
		case Full:
			full++
		case Half:
			half++
		default:
			empty++
		}
	}
	return full, half, empty
}

// Strings renders the stars as their names, e.g. for JSON payloads.
func Strings(r float64) []string {
	stars := Stars(r)
	out := make([]string, 0, len(stars))
	for _, s := range stars {
		out = append(out, s.String())
	}
	return out
}
