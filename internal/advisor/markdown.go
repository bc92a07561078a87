package advisor

import "regexp"

var boldPattern = regexp.MustCompile(`\*\*.*?\*\*`)

// Segment is a run of model text with uniform emphasis.
type Segment struct {
	Text string `json:"text"`
	Bold bool   `json:"bold,omitempty"`
}

// Segments splits text on **bold** spans. Unpaired markers stay literal.
func Segments(text string) []Segment {
	var out []Segment
	last := 0
	for _, loc := range boldPattern.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			out = append(out, Segment{Text: text[last:loc[0]]})
		}
		if inner := text[loc[0]+2 : loc[1]-2]; inner != "" {
			out = append(out, Segment{Text: inner, Bold: true})
		}
		last = loc[1]
	}
	if last < len(text) {
		out = append(out, Segment{Text: text[last:]})
	}
	return out
}
