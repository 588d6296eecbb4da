package calcom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// timestampLayout matches the millisecond ISO form Cal.com expects.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Slot is a single bookable instant.
type Slot struct {
	Time time.Time `json:"time"`
}

// SlotsByDate maps a calendar date (YYYY-MM-DD) to its slots in provider order.
type SlotsByDate map[string][]Slot

// Client defines the interface for reading availability from Cal.com
type Client interface {
	GetAvailableSlots(ctx context.Context, start, end time.Time) (SlotsByDate, error)
}

// UpstreamError is returned when Cal.com answers with a non-2xx status or a
// body that cannot be decoded. It carries the raw response for logging.
type UpstreamError struct {
	StatusCode int
	Header     http.Header
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("error from Cal.com API (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("error from Cal.com API (status %d): %s", e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

type clientImpl struct {
	apiKey        string
	baseURL       string
	eventTypeID   string
	eventTypeSlug string
	httpClient    *http.Client
}

// NewClient creates a new Cal.com client bound to one event type.
func NewClient(apiKey, baseURL, eventTypeID, eventTypeSlug string, timeout time.Duration) Client {
	return &clientImpl{
		apiKey:        apiKey,
		baseURL:       baseURL,
		eventTypeID:   eventTypeID,
		eventTypeSlug: eventTypeSlug,
		httpClient:    &http.Client{Timeout: timeout},
	}
}

type slotsResponse struct {
	Status string `json:"status"`
	Data   *struct {
		Slots SlotsByDate `json:"slots"`
	} `json:"data"`
}

func (c *clientImpl) GetAvailableSlots(ctx context.Context, start, end time.Time) (SlotsByDate, error) {
	params := url.Values{}
	params.Add("startTime", start.UTC().Format(timestampLayout))
	params.Add("endTime", end.UTC().Format(timestampLayout))
	params.Add("eventTypeId", c.eventTypeID)
	params.Add("eventTypeSlug", c.eventTypeSlug)

	slotsURL := fmt.Sprintf("%s/slots/available?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, slotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Add("Authorization", "Bearer "+c.apiKey)
	req.Header.Add("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching available slots: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Header:     resp.Header.Clone(),
			Body:       string(body),
		}
	}

	var response slotsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, malformed(resp, body, fmt.Errorf("error parsing response: %w", err))
	}

	if response.Data == nil {
		return nil, malformed(resp, body, fmt.Errorf("response has no data object"))
	}

	// A slot without an instant decodes to the zero time, which would
	// otherwise land in a bucket and be proposed.
	for date, slots := range response.Data.Slots {
		for i, slot := range slots {
			if slot.Time.IsZero() {
				return nil, malformed(resp, body, fmt.Errorf("slot %d on %s has no time", i, date))
			}
		}
	}

	if response.Data.Slots == nil {
		return SlotsByDate{}, nil
	}
	return response.Data.Slots, nil
}

func malformed(resp *http.Response, body []byte, err error) *UpstreamError {
	return &UpstreamError{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       string(body),
		Err:        err,
	}
}
