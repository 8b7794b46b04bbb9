package sheets

import (
	"context"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Client reads the published CSV exports of the schedule spreadsheet. Every
// fetch resolves to (data, ok); a false ok means "treat the remote state as
// unknown and fall back to the local view"; the reader never returns an
// error to its callers.
type Client struct {
	HTTP *http.Client

	ScheduleURL string
	BookingsURL string
	SlotsURL    string
}

func NewClient(scheduleURL, bookingsURL, slotsURL string, timeout time.Duration) *Client {
	return &Client{
		HTTP:        &http.Client{Timeout: timeout},
		ScheduleURL: scheduleURL,
		BookingsURL: bookingsURL,
		SlotsURL:    slotsURL,
	}
}

func (c *Client) fetchCSV(ctx context.Context, url string) (string, bool) {
	if url == "" {
		return "", false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Printf("sheets: build request: %v", err)
		return "", false
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		log.Printf("sheets: fetch %s: %v", url, err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("sheets: fetch %s: status %d", url, resp.StatusCode)
		return "", false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("sheets: read body: %v", err)
		return "", false
	}

	data := string(body)
	// A private sheet answers with an HTML sign-in page, not CSV.
	if strings.HasPrefix(strings.TrimSpace(data), "<") {
		log.Printf("sheets: %s returned HTML; is the sheet public?", url)
		return "", false
	}
	return data, true
}
