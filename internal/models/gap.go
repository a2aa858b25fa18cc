package models

// Gap is one blank produced by a gap-generation method.
type Gap struct {
	Word     string `json:"word"`
	StartIdx int    `json:"start_idx"`
	EndIdx   int    `json:"end_idx"`
	Context  string `json:"context"`
	Method   string `json:"method,omitempty"`
}

// GapSet is the full output of one gap-generation run for a passage.
type GapSet struct {
	Gaps      []Gap  `json:"gaps"`
	ClozeText string `json:"cloze_text"`
}
