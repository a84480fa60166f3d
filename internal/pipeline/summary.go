package pipeline

// HandSummary is the wire form of a HandResult.
type HandSummary struct {
	Handedness string  `json:"handedness"`
	Score      float64 `json:"score"`
	Fingers    string  `json:"fingers"`
	Count      int     `json:"count"`
	Raw        string  `json:"raw"`
	Stable     string  `json:"stable"`
	Primary    bool    `json:"primary"`
}

// Summary is a compact per-frame report published to UI clients.
type Summary struct {
	Type  string        `json:"type"`
	Mode  string        `json:"mode"`
	Seq   uint64        `json:"seq"`
	Hands []HandSummary `json:"hands"`
}

// Summarize converts f for publishing.
func (f Frame) Summarize(mode string) Summary {
	s := Summary{
		Type:  "frame",
		Mode:  mode,
		Seq:   f.Seq,
		Hands: make([]HandSummary, 0, len(f.Hands)),
	}
	for i := range f.Hands {
		r := &f.Hands[i]
		s.Hands = append(s.Hands, HandSummary{
			Handedness: string(r.Hand.Handedness),
			Score:      r.Hand.Score,
			Fingers:    r.Fingers.String(),
			Count:      r.Fingers.Count(),
			Raw:        string(r.Raw),
			Stable:     string(r.Stable),
			Primary:    r == f.Primary,
		})
	}
	return s
}
