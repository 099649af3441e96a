package models

import (
	"fmt"
	"regexp"
)

// uuidPattern is the textual UUID contract for sessionId: 8-4-4-4-12 hex
// groups, case-insensitive. Deliberately stricter than uuid.Parse, which
// also accepts braced and urn-prefixed forms.
var uuidPattern = regexp.MustCompile(`^(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidUUID reports whether s matches the sessionId contract.
func ValidUUID(s string) bool {
	return uuidPattern.MatchString(s)
}

// ValidateAndEnrich turns one already-deserialized record into an
// EnrichedEntry. ordinal is the record's 1-based position in its source
// stream. A non-nil error is a rejection reason; the caller logs it and
// skips the record, so a single bad record never aborts an ingestion.
// Unknown keys are retained on the result's Extra bag.
func ValidateAndEnrich(raw any, ordinal int) (*EnrichedEntry, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("record %d: not a JSON object", ordinal)
	}

	display, ok := obj["display"].(string)
	if !ok {
		return nil, fmt.Errorf("record %d: display is not a string", ordinal)
	}

	ts, ok := asMillis(obj["timestamp"])
	if !ok {
		return nil, fmt.Errorf("record %d: timestamp is not a number", ordinal)
	}
	if ts < MinTimestamp {
		return nil, fmt.Errorf("record %d: timestamp %d is before the sanity floor", ordinal, ts)
	}

	project, ok := obj["project"].(string)
	if !ok {
		return nil, fmt.Errorf("record %d: project is not a string", ordinal)
	}

	entry := Entry{
		Display:   display,
		Timestamp: ts,
		Project:   project,
	}

	if raw, present := obj["sessionId"]; present {
		sid, ok := raw.(string)
		if !ok || !ValidUUID(sid) {
			return nil, fmt.Errorf("record %d: sessionId is not a UUID", ordinal)
		}
		entry.SessionID = sid
	}

	if raw, present := obj["pastedContents"]; present {
		pasted, err := parsePastedContents(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", ordinal, err)
		}
		entry.PastedContents = pasted
	}

	for k, v := range obj {
		switch k {
		case "display", "pastedContents", "timestamp", "project", "sessionId":
		default:
			if entry.Extra == nil {
				entry.Extra = make(map[string]any)
			}
			entry.Extra[k] = v
		}
	}

	enriched := Enrich(entry, ordinal)
	return &enriched, nil
}

func parsePastedContents(raw any) (map[string]PastedContent, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("pastedContents is not a mapping")
	}

	out := make(map[string]PastedContent, len(obj))
	for key, v := range obj {
		item, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("pastedContents[%s] is not an object", key)
		}
		id, ok := item["id"].(float64)
		if !ok {
			return nil, fmt.Errorf("pastedContents[%s].id is not a number", key)
		}
		typ, ok := item["type"].(string)
		if !ok || typ != "text" {
			return nil, fmt.Errorf("pastedContents[%s].type is not \"text\"", key)
		}
		pc := PastedContent{ID: id, Type: typ}
		if c, present := item["content"]; present {
			s, ok := c.(string)
			if !ok {
				return nil, fmt.Errorf("pastedContents[%s].content is not a string", key)
			}
			pc.Content = s
		}
		if h, present := item["contentHash"]; present {
			s, ok := h.(string)
			if !ok {
				return nil, fmt.Errorf("pastedContents[%s].contentHash is not a string", key)
			}
			pc.ContentHash = s
		}
		out[key] = pc
	}
	return out, nil
}

func asMillis(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}
