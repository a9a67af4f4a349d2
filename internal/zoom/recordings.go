package zoom

import (
	"context"
	"net/url"
	"strconv"

	"github.com/teemow/zoom-mcp/internal/instrumentation"
	"github.com/teemow/zoom-mcp/internal/logging"
)

func (p ListRecordingsParams) pageSize() int {
	if p.PageSize == nil {
		return DefaultPageSize
	}
	return min(*p.PageSize, MaxPageSize)
}

func (p ListRecordingsParams) pageNumber() int {
	if p.PageNumber == nil {
		return 1
	}
	return *p.PageNumber
}

func (p ListRecordingsParams) query() url.Values {
	q := url.Values{}
	q.Set("page_size", strconv.Itoa(p.pageSize()))
	q.Set("page_number", strconv.Itoa(p.pageNumber()))
	if p.From != "" {
		q.Set("from", p.From)
	}
	if p.To != "" {
		q.Set("to", p.To)
	}
	return q
}

// ListRecordings returns one page of the authenticated user's cloud
// recordings. The upstream body is passed through unmodified.
func (c *Client) ListRecordings(ctx context.Context, params ListRecordingsParams) Result {
	ctx, span := instrumentation.StartZoomSpan(ctx, instrumentation.OperationListRecordings)
	defer span.End()

	c.logger.Debug("listing recordings",
		"page_size", params.pageSize(),
		"page_number", params.pageNumber(),
		"from", params.From,
		"to", params.To,
	)

	body, apiErr := c.fetchJSON(ctx, instrumentation.OperationListRecordings, "recordings",
		c.baseURL+"/users/me/recordings", params.query())
	if apiErr != nil {
		instrumentation.SetSpanFailure(span, string(apiErr.Kind), apiErr.Message)
		return Failure(apiErr)
	}

	instrumentation.SetSpanSuccess(span)
	return PassThrough(body)
}

// GetRecordingDetails returns the recording information for one meeting,
// passed through unmodified.
func (c *Client) GetRecordingDetails(ctx context.Context, meetingID string) Result {
	ctx, span := instrumentation.StartZoomSpan(ctx, instrumentation.OperationGetRecording,
		instrumentation.NewSpanAttributeBuilder().WithMeetingID(meetingID).Build()...)
	defer span.End()

	c.logger.Debug("fetching recording details", logging.MeetingID(meetingID))

	body, apiErr := c.fetchJSON(ctx, instrumentation.OperationGetRecording, "recording details",
		c.recordingsURL(meetingID), nil)
	if apiErr != nil {
		instrumentation.SetSpanFailure(span, string(apiErr.Kind), apiErr.Message)
		return Failure(apiErr)
	}

	instrumentation.SetSpanSuccess(span)
	return PassThrough(body)
}

func (c *Client) recordingsURL(meetingID string) string {
	return c.baseURL + "/meetings/" + meetingPath(meetingID) + "/recordings"
}
