package zoom

// Credentials are the OAuth values a Client works with. They are supplied
// per call and never persisted.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	ClientID     string
	ClientSecret string
}

// ListRecordingsParams selects a page of the caller's cloud recordings.
type ListRecordingsParams struct {
	// From and To are optional YYYY-MM-DD bounds, sent only when non-empty.
	From string
	To   string
	// PageSize defaults to DefaultPageSize when nil. Values above MaxPageSize
	// are capped; any other value is sent as given.
	PageSize *int
	// PageNumber defaults to 1 when nil and is otherwise sent as given.
	PageNumber *int
}

const (
	DefaultPageSize = 30
	MaxPageSize     = 300

	// FileTypeTranscript marks recording files holding a meeting transcript.
	FileTypeTranscript = "TRANSCRIPT"
)

// recordingDetail is the subset of GET /meetings/{id}/recordings the
// transcript pipeline reads. Everything else is ignored.
type recordingDetail struct {
	Topic          string          `json:"topic"`
	Duration       int             `json:"duration"`
	RecordingFiles []recordingFile `json:"recording_files"`
}

type recordingFile struct {
	ID             string `json:"id"`
	FileName       string `json:"file_name"`
	FileType       string `json:"file_type"`
	DownloadURL    string `json:"download_url"`
	RecordingStart string `json:"recording_start"`
	RecordingEnd   string `json:"recording_end"`
}

// TranscriptEntry is one downloaded transcript file.
type TranscriptEntry struct {
	FileID         string `json:"file_id"`
	FileName       string `json:"file_name"`
	RecordingStart string `json:"recording_start"`
	RecordingEnd   string `json:"recording_end"`
	// Content is the file body as returned by Zoom, typically WebVTT.
	Content string `json:"content"`
}

// MeetingTranscript is the assembled transcript result for one meeting.
type MeetingTranscript struct {
	MeetingID       string            `json:"meeting_id"`
	Topic           string            `json:"topic"`
	MeetingDuration int               `json:"meeting_duration"`
	Transcripts     []TranscriptEntry `json:"transcripts"`
	Status          string            `json:"status"`
}

// TokenRefresh is the success payload of RefreshToken.
type TokenRefresh struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	// ExpiresAt is RFC 3339.
	ExpiresAt string `json:"expires_at"`
	ExpiresIn int64  `json:"expires_in"`
	Status    string `json:"status"`
}
