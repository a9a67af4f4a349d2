package zoom_tools

import (
	"context"

	"github.com/teemow/zoom-mcp/internal/zoom"
)

//go:generate go tool mockgen -source=api.go -destination=mock_zoom_api_test.go -package=zoom_tools

// zoomAPI is just an interface over [*zoom.Client]
type zoomAPI interface {
	// RefreshToken maps to [zoom.Client.RefreshToken]
	RefreshToken(ctx context.Context, clientID, clientSecret string) zoom.Result

	// ListRecordings maps to [zoom.Client.ListRecordings]
	ListRecordings(ctx context.Context, params zoom.ListRecordingsParams) zoom.Result

	// GetRecordingDetails maps to [zoom.Client.GetRecordingDetails]
	GetRecordingDetails(ctx context.Context, meetingID string) zoom.Result

	// GetMeetingTranscript maps to [zoom.Client.GetMeetingTranscript]
	GetMeetingTranscript(ctx context.Context, meetingID string) zoom.Result
}

// clientFactory builds the client for one tool call.
type clientFactory func(creds zoom.Credentials) (zoomAPI, error)
