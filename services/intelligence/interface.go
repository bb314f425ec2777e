package intelligence

import "context"

// DateExtractor is the oracle that turns free-form caller speech such as
// "nächsten Montag" into a calendar date.
type DateExtractor interface {
	// ExtractDate returns the date in "YYYY-MM-DD" format, or an error
	// when the utterance does not name a resolvable date.
	ExtractDate(ctx context.Context, freeText string) (string, error)
}
