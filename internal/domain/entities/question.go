// Package entities contains domain entities used across the application.
package entities

// Question is a single multiple-choice quiz item loaded from the catalog.
// Option order is display order; CorrectOptionID indexes into Options.
type Question struct {
	Text            string   `json:"question"`          // question text shown in the poll
	Options         []string `json:"options"`           // answer options in display order
	CorrectOptionID int      `json:"correct_option_id"` // zero-based index of the correct option
	Explanation     string   `json:"explanation"`       // explanation sent with the reveal
	Motivation      string   `json:"motivation"`        // motivational line appended to the reveal
}

// CorrectOption returns the text of the correct answer option.
func (q Question) CorrectOption() string {
	if q.CorrectOptionID < 0 || q.CorrectOptionID >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectOptionID]
}
