package handlers

import (
	"encoding/xml"
	"fmt"
)

// Minimal TwiML rendering for the two response shapes this service emits:
// speak-and-listen (Gather) and speak-and-hangup (bare Say).

const (
	twimlVoiceLanguage = "de-DE"
	twimlGatherTimeout = 3
	utteranceAction    = "/voice/handle"
)

type twimlResponse struct {
	XMLName xml.Name     `xml:"Response"`
	Gather  *twimlGather `xml:"Gather,omitempty"`
	Say     *twimlSay    `xml:"Say,omitempty"`
}

type twimlGather struct {
	Input   string    `xml:"input,attr"`
	Action  string    `xml:"action,attr"`
	Timeout int       `xml:"timeout,attr"`
	Say     *twimlSay `xml:"Say"`
}

type twimlSay struct {
	Language string `xml:"language,attr,omitempty"`
	Text     string `xml:",chardata"`
}

// gatherTwiML speaks text, then listens for the caller's next utterance.
func gatherTwiML(text string) (string, error) {
	return renderTwiML(twimlResponse{
		Gather: &twimlGather{
			Input:   "speech",
			Action:  utteranceAction,
			Timeout: twimlGatherTimeout,
			Say:     &twimlSay{Language: twimlVoiceLanguage, Text: text},
		},
	})
}

// sayTwiML speaks text as a final statement; the call ends afterwards.
func sayTwiML(text string) (string, error) {
	return renderTwiML(twimlResponse{
		Say: &twimlSay{Language: twimlVoiceLanguage, Text: text},
	})
}

func renderTwiML(resp twimlResponse) (string, error) {
	b, err := xml.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("marshal twiml: %w", err)
	}
	return xml.Header + string(b), nil
}
