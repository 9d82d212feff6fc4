package models

import (
	"encoding/json"
	"fmt"
)

type TipType string

const (
	TipGood    TipType = "good"
	TipImprove TipType = "improve"
)

// Tip is a single piece of feedback inside a category. Explanation is
// expected to be populated when Type is "improve", but that is scoring-side
// policy and not enforced here.
type Tip struct {
	Type        TipType `json:"type"`
	Tip         string  `json:"tip"`
	Explanation string  `json:"explanation,omitempty"`
}

// CategoryScore holds one scored feedback category.
type CategoryScore struct {
	Score int   `json:"score"`
	Tips  []Tip `json:"tips"`
}

// Feedback is the strict evaluation schema returned by the scoring service.
// All five categories are always present; scores are clamped to [0,100] by
// the producing service, not re-clamped here.
type Feedback struct {
	OverallScore int           `json:"overallScore"`
	ATS          CategoryScore `json:"ATS"`
	ToneAndStyle CategoryScore `json:"toneAndStyle"`
	Content      CategoryScore `json:"content"`
	Structure    CategoryScore `json:"structure"`
	Skills       CategoryScore `json:"skills"`
}

// Wire shapes with pointer fields so that missing keys are detectable;
// plain struct decoding would silently zero-fill them.
type tipWire struct {
	Type        *string `json:"type"`
	Tip         *string `json:"tip"`
	Explanation string  `json:"explanation"`
}

type categoryWire struct {
	Score *int       `json:"score"`
	Tips  *[]tipWire `json:"tips"`
}

type feedbackWire struct {
	OverallScore *int          `json:"overallScore"`
	ATS          *categoryWire `json:"ATS"`
	ToneAndStyle *categoryWire `json:"toneAndStyle"`
	Content      *categoryWire `json:"content"`
	Structure    *categoryWire `json:"structure"`
	Skills       *categoryWire `json:"skills"`
}

// ParseFeedback decodes and shape-checks a scoring-service response payload.
// It returns a fully populated report or an error; it never returns a
// partially populated one.
func ParseFeedback(text string) (*Feedback, error) {
	var wire feedbackWire
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return nil, fmt.Errorf("invalid feedback JSON: %w", err)
	}

	if wire.OverallScore == nil {
		return nil, fmt.Errorf("feedback is missing overallScore")
	}

	report := &Feedback{OverallScore: *wire.OverallScore}

	categories := []struct {
		name string
		wire *categoryWire
		dst  *CategoryScore
	}{
		{"ATS", wire.ATS, &report.ATS},
		{"toneAndStyle", wire.ToneAndStyle, &report.ToneAndStyle},
		{"content", wire.Content, &report.Content},
		{"structure", wire.Structure, &report.Structure},
		{"skills", wire.Skills, &report.Skills},
	}

	for _, cat := range categories {
		if cat.wire == nil {
			return nil, fmt.Errorf("feedback is missing category %q", cat.name)
		}
		if cat.wire.Score == nil {
			return nil, fmt.Errorf("category %q is missing score", cat.name)
		}
		if cat.wire.Tips == nil {
			return nil, fmt.Errorf("category %q is missing tips", cat.name)
		}

		tips := make([]Tip, 0, len(*cat.wire.Tips))
		for i, tip := range *cat.wire.Tips {
			if tip.Type == nil || tip.Tip == nil {
				return nil, fmt.Errorf("category %q tip %d is missing type or tip", cat.name, i)
			}
			kind := TipType(*tip.Type)
			if kind != TipGood && kind != TipImprove {
				return nil, fmt.Errorf("category %q tip %d has invalid type %q", cat.name, i, *tip.Type)
			}
			tips = append(tips, Tip{Type: kind, Tip: *tip.Tip, Explanation: tip.Explanation})
		}

		cat.dst.Score = *cat.wire.Score
		cat.dst.Tips = tips
	}

	return report, nil
}
