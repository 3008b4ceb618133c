// SPDX-License-Identifier: MIT

package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParseItems decodes a collection payload. Anything other than a JSON array
// yields an empty collection; elements that are not objects are skipped.
func ParseItems(raw []byte) ([]Item, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return []Item{}, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	items := make([]Item, 0, len(elems))
	for _, e := range elems {
		e = bytes.TrimSpace(e)
		if len(e) == 0 || e[0] != '{' {
			continue
		}
		var it Item
		if err := json.Unmarshal(e, &it); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		items = append(items, it)
	}
	return items, nil
}

// VIPList picks the item list out of a VIP payload, which arrives as a bare
// array, an object with "records", or an object with "theaterList", checked in
// that order. Unrecognised shapes yield an empty JSON array.
func VIPList(raw []byte) json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		return json.RawMessage(raw)
	}
	var obj map[string]json.RawMessage
	if len(raw) > 0 && raw[0] == '{' && json.Unmarshal(raw, &obj) == nil {
		for _, key := range []string{"records", "theaterList"} {
			v := bytes.TrimSpace(obj[key])
			if len(v) > 0 && v[0] == '[' {
				return json.RawMessage(v)
			}
		}
	}
	return json.RawMessage("[]")
}

// ParseVIP decodes a VIP payload in any of its shapes.
func ParseVIP(raw []byte) ([]Item, error) {
	return ParseItems(VIPList(raw))
}

// ParseDetail decodes a detail payload, whose record sits under "data".
// A missing or null record returns nil without error.
func ParseDetail(raw []byte) (*Item, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, nil
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode detail: %w", err)
	}
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || data[0] != '{' {
		return nil, nil
	}
	var it Item
	if err := json.Unmarshal(data, &it); err != nil {
		return nil, fmt.Errorf("decode detail record: %w", err)
	}
	return &it, nil
}

// ParseEpisodes decodes an episode list. Non-array payloads yield no episodes.
func ParseEpisodes(raw []byte) ([]Episode, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return []Episode{}, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("decode episodes: %w", err)
	}
	eps := make([]Episode, 0, len(elems))
	for _, e := range elems {
		e = bytes.TrimSpace(e)
		if len(e) == 0 || e[0] != '{' {
			continue
		}
		var ep Episode
		if err := json.Unmarshal(e, &ep); err != nil {
			return nil, fmt.Errorf("decode episode: %w", err)
		}
		eps = append(eps, ep)
	}
	return eps, nil
}

// Keywords decodes the popular-search payload: either a list of strings or a
// list of objects carrying a keyword/name/bookName field.
func Keywords(raw []byte) []string {
	var elems []json.RawMessage
	if json.Unmarshal(raw, &elems) != nil {
		return nil
	}
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		var s Text
		if e = bytes.TrimSpace(e); len(e) > 0 && e[0] == '{' {
			var obj struct {
				Keyword  Text `json:"keyword"`
				Name     Text `json:"name"`
				BookName Text `json:"bookName"`
			}
			if json.Unmarshal(e, &obj) != nil {
				continue
			}
			s = Text(first("", obj.Keyword, obj.Name, obj.BookName))
		} else if s.UnmarshalJSON(e) != nil {
			continue
		}
		if !s.Empty() {
			out = append(out, string(s))
		}
	}
	return out
}
