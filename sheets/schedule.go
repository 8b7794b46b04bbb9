package sheets

import (
	"context"
	"log"
	"strconv"
	"strings"

	"confsync/models"
)

// FetchSchedule reads the main schedule tab. Columns are matched by header
// name, not position, so the sheet owner can reorder or add columns freely.
func (c *Client) FetchSchedule(ctx context.Context) ([]models.Session, bool) {
	data, ok := c.fetchCSV(ctx, c.ScheduleURL)
	if !ok {
		return nil, false
	}
	return parseSchedule(data), true
}

func parseSchedule(data string) []models.Session {
	rows := splitRows(data)
	if len(rows) < 2 {
		return nil
	}

	headers := splitFields(rows[0])
	var sessions []models.Session

	for i, row := range rows[1:] {
		fields := splitFields(row)
		for len(fields) < len(headers) {
			fields = append(fields, "")
		}
		var s models.Session
		for idx, header := range headers {
			value := fields[idx]
			switch normalizeHeader(header) {
			case "id":
				s.ID = value
			case "day":
				s.Day = value
			case "start":
				s.Start = value
			case "end":
				s.End = value
			case "title":
				s.Title = value
			case "level":
				s.Level = value
			case "types":
				s.Styles = splitNames(value)
				s.CardType = cardTypeFor(s.Styles)
			case "teachers":
				s.Teachers = splitNames(value)
			case "location":
				s.Location = value
			case "description":
				s.Description = value
			case "prerequisites", "prerequisite", "pre-requisites", "pre-requisite",
				"pre-requesites", "pre-req", "pre-reqs":
				s.Prereqs = value
			case "type", "cardtype", "card-type", "card type":
				// Explicit card type overrides the one derived from types.
				s.CardType = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), " ", "-")
			default:
				if s.Extra == nil {
					s.Extra = make(map[string]string)
				}
				s.Extra[header] = value
			}
		}

		// Rows without an id are continuations or notes, not sessions.
		if s.ID == "" {
			log.Printf("sheets: schedule row %d has no id; skipped", i+2)
			continue
		}

		s.Tags = deriveTags(s)
		sessions = append(sessions, s)
	}
	return sessions
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

func cardTypeFor(styles []string) string {
	has := func(substr string) bool {
		for _, s := range styles {
			if strings.Contains(strings.ToLower(s), substr) {
				return true
			}
		}
		return false
	}
	switch {
	case has("meal"):
		return "simplified"
	case has("special"), has("photo-only"):
		return "photo-only"
	case has("jam"), has("pool"), has("demo"):
		return "simplified"
	default:
		return "full"
	}
}

func deriveTags(s models.Session) []string {
	var tags []string

	hour := 12
	if parts := strings.Split(s.Start, ":"); len(parts) > 0 {
		if h, err := strconv.Atoi(parts[0]); err == nil {
			hour = h
		}
	}
	switch {
	case hour < 9:
		tags = append(tags, "morning")
	case hour < 17:
		tags = append(tags, "afternoon")
	default:
		tags = append(tags, "evening")
	}

	loc := strings.ToLower(s.Location)
	for _, place := range []string{"beach", "pool", "garden"} {
		if strings.Contains(loc, place) {
			tags = append(tags, place)
		}
	}

	title := strings.ToLower(s.Title)
	for _, meal := range []string{"breakfast", "lunch", "dinner"} {
		if strings.Contains(title, meal) {
			tags = append(tags, "meal")
		}
	}
	if strings.Contains(title, "demo") {
		tags = append(tags, "demo")
	}
	if strings.Contains(title, "jam") {
		tags = append(tags, "free-time")
	}
	if strings.Contains(title, "pool") {
		tags = append(tags, "free-time", "pool")
	}

	return tags
}
