// SPDX-License-Identifier: MIT

// Package catalog models the provider's drama records. The provider's schema
// differs per endpoint, so every field is optional and accessors resolve
// values through ordered fallback chains.
package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Placeholder artwork used when a record carries no cover at all.
const PlaceholderCover = "https://via.placeholder.com/200x300"

// Display fallbacks.
const (
	DefaultCardTitle   = "Unknown"
	DefaultDetailTitle = "Unknown Drama"
	DefaultHeroBlurb   = "Tonton drama terbaik secara percuma di DramaBox."
	DefaultSynopsis    = "Tiada huraian tersedia."
	DefaultBadge       = "HD"
	DefaultRating      = "9.5"
	UnknownCount       = "?"
)

// Tag is a label attached to a drama; the provider sends either plain
// strings or objects carrying a tagName.
type Tag string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var obj struct {
			TagName Text `json:"tagName"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		*t = Tag(obj.TagName)
		return nil
	}
	var s Text
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	*t = Tag(s)
	return nil
}

// Item is one drama record as returned by any catalog endpoint.
type Item struct {
	BookID           Text  `json:"bookId,omitempty"`
	AltID            Text  `json:"id,omitempty"`
	BookName         Text  `json:"bookName,omitempty"`
	Cover            Text  `json:"cover,omitempty"`
	CoverWap         Text  `json:"coverWap,omitempty"`
	BookCover        Text  `json:"bookCover,omitempty"`
	ChapterCount     Text  `json:"chapterCount,omitempty"`
	TotalChapter     Text  `json:"totalChapter,omitempty"`
	Score            Text  `json:"score,omitempty"`
	HotCode          Text  `json:"hotCode,omitempty"`
	Protagonist      Text  `json:"protagonist,omitempty"`
	Introduction     Text  `json:"introduction,omitempty"`
	BookIntroduction Text  `json:"bookIntroduction,omitempty"`
	Tags             []Tag `json:"tags,omitempty"`
}

// ID resolves the identifier used to open the drama: bookId, then id.
func (i Item) ID() string {
	return first("", i.BookID, i.AltID)
}

// Card is the grid tile view of an item.
type Card struct {
	ID          string
	Title       string
	Cover       string
	Episodes    string
	Badge       string
	Protagonist string
}

// Card builds the grid tile for i.
func (i Item) Card() Card {
	return Card{
		ID:          i.ID(),
		Title:       first(DefaultCardTitle, i.BookName),
		Cover:       first(PlaceholderCover, i.Cover, i.CoverWap, i.BookCover),
		Episodes:    first(UnknownCount, i.ChapterCount, i.TotalChapter),
		Badge:       first(DefaultBadge, i.Score, i.HotCode),
		Protagonist: first("", i.Protagonist),
	}
}

// Hero is the banner view of an item.
type Hero struct {
	ID     string
	Title  string
	Blurb  string
	Cover  string
	Source Item
}

// Hero builds the banner for i.
func (i Item) Hero() Hero {
	return Hero{
		ID:     i.ID(),
		Title:  string(i.BookName),
		Blurb:  first(DefaultHeroBlurb, i.Introduction, i.BookIntroduction),
		Cover:  first("", i.Cover, i.CoverWap, i.BookCover),
		Source: i,
	}
}

// Detail is the detail-modal view of an item together with its episodes.
type Detail struct {
	ID       string
	Title    string
	Synopsis string
	Cover    string
	Tags     []string
	Episodes string
	Rating   string
}

// Detail builds the detail view; episodeCount is the length of the fetched
// episode list and backs up a missing chapterCount.
func (i Item) Detail(episodeCount int) Detail {
	count := string(i.ChapterCount)
	if !i.ChapterCount.truthy() {
		count = UnknownCount
		if episodeCount > 0 {
			count = strconv.Itoa(episodeCount)
		}
	}
	tags := make([]string, 0, len(i.Tags))
	for _, t := range i.Tags {
		tags = append(tags, string(t))
	}
	return Detail{
		ID:       i.ID(),
		Title:    first(DefaultDetailTitle, i.BookName),
		Synopsis: first(DefaultSynopsis, i.Introduction),
		Cover:    first(PlaceholderCover, i.Cover, i.BookCover, i.CoverWap),
		Tags:     tags,
		Episodes: count,
		Rating:   first(DefaultRating, i.Score),
	}
}
