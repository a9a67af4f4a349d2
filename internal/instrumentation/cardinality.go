package instrumentation

import "strings"

// Cardinality helpers. Zoom URLs embed meeting IDs and UUIDs; recording them
// raw as metric labels would create one series per meeting.

// EndpointTemplate reduces a Zoom API path to a low-cardinality template.
//
//	EndpointTemplate("/v2/users/me/recordings")              // "/users/me/recordings"
//	EndpointTemplate("/v2/meetings/8127361/recordings")      // "/meetings/{meetingId}/recordings"
//	EndpointTemplate("/rec/download/abc123")                 // "/rec/download/{fileId}"
//	EndpointTemplate("")                                     // "unknown"
func EndpointTemplate(path string) string {
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return "unknown"
	}
	path = strings.TrimPrefix(path, "/v2")

	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i := 1; i < len(segments); i++ {
		switch segments[i-1] {
		case "meetings":
			segments[i] = "{meetingId}"
		case "users":
			if segments[i] != "me" {
				segments[i] = "{userId}"
			}
		case "download", "play":
			segments[i] = "{fileId}"
			segments = segments[:i+1]
		}
	}

	return "/" + strings.Join(segments, "/")
}

// Operation types for Zoom API metrics.
const (
	OperationListRecordings = "list_recordings"
	OperationGetRecording   = "get_recording"
	OperationGetTranscript  = "get_transcript"
	OperationDownloadFile   = "download_file"
	OperationRefreshToken   = "refresh_token"
)
