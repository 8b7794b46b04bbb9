package sheets

import (
	"context"
	"log"
)

// FetchSlots reads the photoshoot tab: Time Slot | Names. Slots with no
// names are free and stay out of the map.
func (c *Client) FetchSlots(ctx context.Context) (map[string][]string, bool) {
	data, ok := c.fetchCSV(ctx, c.SlotsURL)
	if !ok {
		return nil, false
	}
	return parseSlots(data), true
}

func parseSlots(data string) map[string][]string {
	rows := splitRows(data)
	slots := make(map[string][]string)
	if len(rows) < 2 {
		return slots
	}

	for i, row := range rows[1:] {
		fields := splitFields(row)
		if len(fields) < 2 {
			log.Printf("sheets: slot row %d too short; skipped", i+2)
			continue
		}
		timeSlot := fields[0]
		names := splitNames(fields[1])
		if timeSlot == "" || len(names) == 0 {
			continue
		}
		slots[timeSlot] = names
	}
	return slots
}
