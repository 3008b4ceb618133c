// SPDX-License-Identifier: MIT

package catalog

import "strings"

// UnavailableURL is the placeholder some clients substitute for a missing
// stream link.
const UnavailableURL = "undefined"

// Episode is one chapter of a drama with its stream links.
type Episode struct {
	ChapterIndex Text `json:"chapterIndex"`
	ChapterName  Text `json:"chapterName,omitempty"`
	PlayURL      Text `json:"playUrl,omitempty"`
	PlayURLV3    Text `json:"playUrlV3,omitempty"`
}

// StreamURL resolves the playable link: playUrl, then playUrlV3.
func (e Episode) StreamURL() string {
	return first("", e.PlayURL, e.PlayURLV3)
}

// Label is the episode number shown to the user.
func (e Episode) Label() string {
	return string(e.ChapterIndex)
}

// Playable reports whether url can be handed to a player.
func Playable(url string) bool {
	u := strings.TrimSpace(url)
	return u != "" && u != UnavailableURL
}
