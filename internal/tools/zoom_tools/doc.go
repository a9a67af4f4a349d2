// Package zoom_tools provides MCP tools for Zoom cloud recordings.
//
// Available tools:
//   - zoom_refresh_token - Exchange a refresh token for a new access token
//   - zoom_list_recordings - List the user's cloud recordings, paginated
//   - zoom_get_recording_details - Get one meeting's recording information
//   - zoom_get_meeting_transcript - Download and assemble a meeting's transcripts
//
// The server stores no credentials. Every call carries its own
// zoom_access_token (or, for zoom_refresh_token, the refresh token and
// client credentials), and a new client is built for each call.
//
// Every tool answers with one text content holding a JSON document. Zoom
// failures are returned as error results whose JSON has "status": "error".
// Missing arguments produce an "Error: ..." text.
//
// Example usage:
//
//	zoom_list_recordings(
//	    zoom_access_token="eyJ...",
//	    from_date="2024-01-01",
//	    to_date="2024-01-31",
//	    page_size=50
//	)
//
//	zoom_get_meeting_transcript(
//	    zoom_access_token="eyJ...",
//	    meeting_id="85746065432"
//	)
package zoom_tools
