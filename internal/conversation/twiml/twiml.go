// Package twiml renders the telephony markup documents the voice gateway
// consumes: speak an utterance, keep gathering speech, post the next turn
// back to the webhook.
package twiml

import (
	"encoding/xml"
)

// DefaultVoice is the gateway speech synthesis voice.
const DefaultVoice = "Polly.Matthew"

type response struct {
	XMLName xml.Name `xml:"Response"`
	Gather  *gather  `xml:"Gather,omitempty"`
}

type gather struct {
	Input  string `xml:"input,attr"`
	Action string `xml:"action,attr"`
	Method string `xml:"method,attr"`
	Say    say    `xml:"Say"`
}

type say struct {
	Voice string `xml:"voice,attr"`
	Text  string `xml:",chardata"`
}

// GatherSpeech renders a document that speaks utterance and gathers the
// caller's next speech input, posting it to action.
func GatherSpeech(utterance, action, voice string) ([]byte, error) {
	if voice == "" {
		voice = DefaultVoice
	}

	doc := response{
		Gather: &gather{
			Input:  "speech",
			Action: action,
			Method: "POST",
			Say: say{
				Voice: voice,
				Text:  utterance,
			},
		},
	}

	body, err := xml.Marshal(doc)
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), body...), nil
}
