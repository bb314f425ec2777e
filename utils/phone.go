package utils

import (
	"github.com/nyaruka/phonenumbers"
)

// NormalizePhone parses a spoken phone number for the given region and
// formats it as E.164. Transcribed speech is frequently not a parseable
// number; in that case the raw utterance is returned unchanged so the
// conversation can continue.
func NormalizePhone(raw, region string) string {
	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
