package zoom

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/zoom-mcp/internal/instrumentation"
	"github.com/teemow/zoom-mcp/internal/logging"
)

// GetMeetingTranscript collects the transcript files of a meeting recording.
//
// The recording listing is fetched first; any failure there is returned
// as-is and nothing is downloaded. Transcript files are then downloaded one
// after another in listing order. A file without a download URL, or whose
// download fails, is left out. The result is a success even when every
// download was left out.
func (c *Client) GetMeetingTranscript(ctx context.Context, meetingID string) Result {
	ctx, span := instrumentation.StartZoomSpan(ctx, instrumentation.OperationGetTranscript,
		instrumentation.NewSpanAttributeBuilder().WithMeetingID(meetingID).Build()...)
	defer span.End()

	body, apiErr := c.fetchJSON(ctx, instrumentation.OperationGetTranscript, "recording information",
		c.recordingsURL(meetingID), nil)
	if apiErr != nil {
		instrumentation.SetSpanFailure(span, string(apiErr.Kind), apiErr.Message)
		return Failure(apiErr)
	}

	var detail recordingDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		apiErr := transportFailed(fmt.Errorf("failed to decode recording information: %w", err))
		instrumentation.SetSpanFailure(span, string(apiErr.Kind), apiErr.Message)
		return Failure(apiErr)
	}

	files := transcriptFiles(detail.RecordingFiles)
	span.SetAttributes(attribute.Int(instrumentation.SpanAttrTranscriptFiles, len(files)))
	if len(files) == 0 {
		apiErr := NewAPIError(KindEmptyResult, msgNoTranscripts)
		instrumentation.SetSpanFailure(span, string(apiErr.Kind), apiErr.Message)
		return Failure(apiErr)
	}

	entries := make([]TranscriptEntry, 0, len(files))
	for _, f := range files {
		entry, ok := c.downloadTranscript(ctx, f)
		if ok {
			entries = append(entries, entry)
		}
	}

	// A cancelled call must not look like a meeting whose downloads failed.
	if err := ctx.Err(); err != nil {
		apiErr := transportFailed(err)
		instrumentation.SetSpanFailure(span, string(apiErr.Kind), apiErr.Message)
		return Failure(apiErr)
	}

	span.SetAttributes(attribute.Int(instrumentation.SpanAttrTranscriptKept, len(entries)))
	instrumentation.SetSpanSuccess(span)

	c.logger.Info("assembled meeting transcript",
		logging.MeetingID(meetingID),
		"transcript_files", len(files),
		"downloaded", len(entries),
	)

	return Success(MeetingTranscript{
		MeetingID:       meetingID,
		Topic:           detail.Topic,
		MeetingDuration: detail.Duration,
		Transcripts:     entries,
		Status:          statusSuccess,
	})
}

func transcriptFiles(files []recordingFile) []recordingFile {
	var out []recordingFile
	for _, f := range files {
		if f.FileType == FileTypeTranscript {
			out = append(out, f)
		}
	}
	return out
}

func (c *Client) downloadTranscript(ctx context.Context, f recordingFile) (TranscriptEntry, bool) {
	if f.DownloadURL == "" {
		c.logger.Debug("transcript file has no download url", logging.FileName(f.FileName))
		c.metrics.RecordTranscriptDownload(ctx, instrumentation.DownloadResultSkipped)
		return TranscriptEntry{}, false
	}

	resp, err := c.get(ctx, instrumentation.OperationDownloadFile, f.DownloadURL, nil)
	if err != nil {
		c.logger.Warn("transcript download failed, skipping file",
			logging.FileName(f.FileName), logging.Err(err))
		c.metrics.RecordTranscriptDownload(ctx, instrumentation.DownloadResultFailed)
		return TranscriptEntry{}, false
	}
	if resp.status != http.StatusOK {
		c.logger.Warn("transcript download rejected, skipping file",
			logging.FileName(f.FileName), logging.StatusCode(resp.status))
		c.metrics.RecordTranscriptDownload(ctx, instrumentation.DownloadResultFailed)
		return TranscriptEntry{}, false
	}

	c.metrics.RecordTranscriptDownload(ctx, instrumentation.DownloadResultFetched)
	return TranscriptEntry{
		FileID:         f.ID,
		FileName:       f.FileName,
		RecordingStart: f.RecordingStart,
		RecordingEnd:   f.RecordingEnd,
		Content:        string(resp.body),
	}, true
}
