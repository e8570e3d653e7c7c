package model

import "encoding/json"

// Link is one entry of the creator's links list.
type Link struct {
	Label string `json:"label,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Content is the creator's public profile state: the single JSON document the fan
// app reads. Field order is the serialized key order.
type Content struct {
	Name            string            `json:"name,omitempty"`
	Bio             string            `json:"bio,omitempty"`
	Theme           string            `json:"theme,omitempty"`
	BackgroundColor string            `json:"backgroundColor,omitempty"`
	IsLive          bool              `json:"isLive"`
	LiveTitle       string            `json:"liveTitle,omitempty"`
	StreamURL       string            `json:"streamUrl,omitempty"`
	Announcement    string            `json:"announcement,omitempty"`
	Links           []Link            `json:"links,omitempty"`
	Archive         []json.RawMessage `json:"archive,omitempty"`
	ContactEmail    string            `json:"contactEmail,omitempty"`
	ContactLabel    string            `json:"contactLabel,omitempty"`
	EmailCapture    bool              `json:"emailCapture,omitempty"`
}

// legacyLive is the nested live block older documents carried.
type legacyLive struct {
	IsLive *bool  `json:"isLive"`
	URL    string `json:"url"`
	Title  string `json:"title"`
}

// UnmarshalJSON reads the current shape and folds older field names into it.
func (c *Content) UnmarshalJSON(b []byte) error {
	type plain Content
	var aux struct {
		plain
		IsLive  *bool       `json:"isLive"`
		Live    *legacyLive `json:"live"`
		LiveURL string      `json:"liveUrl"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	out := Content(aux.plain)
	switch {
	case aux.IsLive != nil:
		out.IsLive = *aux.IsLive
	case aux.Live != nil && aux.Live.IsLive != nil:
		out.IsLive = *aux.Live.IsLive
	}
	if out.StreamURL == "" {
		out.StreamURL = aux.LiveURL
	}
	if aux.Live != nil {
		if out.StreamURL == "" {
			out.StreamURL = aux.Live.URL
		}
		if out.LiveTitle == "" {
			out.LiveTitle = aux.Live.Title
		}
	}
	*c = out
	return nil
}
