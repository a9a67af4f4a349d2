// Package zoom is a client for the parts of the Zoom REST API that deal with
// cloud recordings.
//
// A Client is created per request from caller-supplied Credentials and
// offers four operations:
//   - RefreshToken exchanges a refresh token for a new access token
//   - ListRecordings pages through the user's cloud recordings
//   - GetRecordingDetails returns one meeting's recording information
//   - GetMeetingTranscript downloads and assembles a meeting's transcripts
//
// Operations never return Go errors. Each returns a Result holding either a
// success payload or an *APIError classified by ErrorKind, and Result.JSON
// renders it for the caller. Reads are never retried and never refresh the
// token on their own; a 401 is reported as KindUnauthorized so the caller
// can refresh and retry.
//
// Example usage:
//
//	client, err := zoom.NewClient(zoom.Credentials{AccessToken: token})
//	if err != nil {
//	    return err
//	}
//	res := client.ListRecordings(ctx, zoom.ListRecordingsParams{From: "2024-01-01"})
//	fmt.Println(res.String())
package zoom
