package zoom_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/zoom-mcp/internal/instrumentation"
	"github.com/teemow/zoom-mcp/internal/server"
	"github.com/teemow/zoom-mcp/internal/tools/common"
	"github.com/teemow/zoom-mcp/internal/zoom"
)

// Tool names.
const (
	ToolRefreshToken         = "zoom_refresh_token"
	ToolListRecordings       = "zoom_list_recordings"
	ToolGetRecordingDetails  = "zoom_get_recording_details"
	ToolGetMeetingTranscript = "zoom_get_meeting_transcript"
)

// Argument names.
const (
	argAccessToken  = "zoom_access_token"
	argRefreshToken = "zoom_refresh_token"
	argClientID     = "zoom_client_id"
	argClientSecret = "zoom_client_secret"
	argMeetingID    = "meeting_id"
	argFromDate     = "from_date"
	argToDate       = "to_date"
	argPageSize     = "page_size"
	argPageNumber   = "page_number"
)

type refreshArgs struct {
	AccessToken  string `mapstructure:"zoom_access_token"`
	RefreshToken string `mapstructure:"zoom_refresh_token"`
	ClientID     string `mapstructure:"zoom_client_id"`
	ClientSecret string `mapstructure:"zoom_client_secret"`
}

type listArgs struct {
	AccessToken string `mapstructure:"zoom_access_token"`
	FromDate    string `mapstructure:"from_date"`
	ToDate      string `mapstructure:"to_date"`
	PageSize    *int   `mapstructure:"page_size"`
	PageNumber  *int   `mapstructure:"page_number"`
}

type meetingArgs struct {
	AccessToken string `mapstructure:"zoom_access_token"`
	MeetingID   string `mapstructure:"meeting_id"`
}

// handlers implements the Zoom tools on top of a client factory.
type handlers struct {
	newClient clientFactory
}

// RegisterZoomTools registers all Zoom recording tools with the MCP server
func RegisterZoomTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	h := &handlers{
		newClient: func(creds zoom.Credentials) (zoomAPI, error) {
			client, err := sc.NewZoomClient(creds)
			if err != nil {
				return nil, err
			}
			return client, nil
		},
	}

	s.AddTool(refreshTokenTool(), common.InstrumentedToolHandler(
		ToolRefreshToken, instrumentation.OperationRefreshToken, sc, h.handleRefreshToken))
	s.AddTool(listRecordingsTool(), common.InstrumentedToolHandler(
		ToolListRecordings, instrumentation.OperationListRecordings, sc, h.handleListRecordings))
	s.AddTool(getRecordingDetailsTool(), common.InstrumentedToolHandler(
		ToolGetRecordingDetails, instrumentation.OperationGetRecording, sc, h.handleGetRecordingDetails))
	s.AddTool(getMeetingTranscriptTool(), common.InstrumentedToolHandler(
		ToolGetMeetingTranscript, instrumentation.OperationGetTranscript, sc, h.handleGetMeetingTranscript))

	return nil
}

func refreshTokenTool() mcp.Tool {
	return mcp.NewTool(ToolRefreshToken,
		mcp.WithDescription("Refresh the Zoom OAuth2 access token using the refresh token and client credentials for API access"),
		mcp.WithString(argAccessToken,
			mcp.Description("Zoom OAuth2 access token (optional if expired)"),
		),
		mcp.WithString(argRefreshToken,
			mcp.Required(),
			mcp.Description("Zoom OAuth2 refresh token"),
		),
		mcp.WithString(argClientID,
			mcp.Required(),
			mcp.Description("Zoom OAuth2 client ID for token refresh"),
		),
		mcp.WithString(argClientSecret,
			mcp.Required(),
			mcp.Description("Zoom OAuth2 client secret for token refresh"),
		),
	)
}

func listRecordingsTool() mcp.Tool {
	return mcp.NewTool(ToolListRecordings,
		mcp.WithDescription("List Zoom cloud recordings from a user's Zoom account with pagination support"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString(argAccessToken,
			mcp.Required(),
			mcp.Description("Zoom OAuth2 access token"),
		),
		mcp.WithString(argFromDate,
			mcp.Description("Start date for Zoom recording search in 'YYYY-MM-DD' format"),
		),
		mcp.WithString(argToDate,
			mcp.Description("End date for Zoom recording search in 'YYYY-MM-DD' format"),
		),
		mcp.WithNumber(argPageSize,
			mcp.Description(fmt.Sprintf("Number of Zoom recordings to return per page (default: %d, max: %d)", zoom.DefaultPageSize, zoom.MaxPageSize)),
		),
		mcp.WithNumber(argPageNumber,
			mcp.Description("Page number of Zoom recordings to return (default: 1)"),
		),
	)
}

func getRecordingDetailsTool() mcp.Tool {
	return mcp.NewTool(ToolGetRecordingDetails,
		mcp.WithDescription("Get detailed information about a specific Zoom meeting recording including recording files and metadata"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString(argAccessToken,
			mcp.Required(),
			mcp.Description("Zoom OAuth2 access token"),
		),
		mcp.WithString(argMeetingID,
			mcp.Required(),
			mcp.Description("The Zoom meeting ID to retrieve recording details for"),
		),
	)
}

func getMeetingTranscriptTool() mcp.Tool {
	return mcp.NewTool(ToolGetMeetingTranscript,
		mcp.WithDescription("Get transcript files and content from a specific Zoom meeting recording if available"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString(argAccessToken,
			mcp.Required(),
			mcp.Description("Zoom OAuth2 access token"),
		),
		mcp.WithString(argMeetingID,
			mcp.Required(),
			mcp.Description("The Zoom meeting ID to retrieve transcript for"),
		),
	)
}

func (h *handlers) handleRefreshToken(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if len(args) == 0 {
		return errorResult(fmt.Sprintf("Missing arguments for %s", ToolRefreshToken)), nil
	}

	// Some clients send the whole argument object as a single quoted key.
	args, _ = common.RecoverQuotedArgs(args, argRefreshToken, argClientID, argClientSecret)

	var in refreshArgs
	if err := common.DecodeArgs(args, &in); err != nil {
		return errorResult(err.Error()), nil
	}
	if in.RefreshToken == "" {
		return errorResult("zoom_refresh_token is required for token refresh"), nil
	}
	if in.ClientID == "" || in.ClientSecret == "" {
		return errorResult("Both zoom_client_id and zoom_client_secret are required for token refresh"), nil
	}

	client, err := h.newClient(zoom.Credentials{
		AccessToken:  in.AccessToken,
		RefreshToken: in.RefreshToken,
	})
	if err != nil {
		return errorResult(err.Error()), nil
	}

	return toolResult(ctx, client.RefreshToken(ctx, in.ClientID, in.ClientSecret)), nil
}

func (h *handlers) handleListRecordings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if len(args) == 0 {
		return errorResult(fmt.Sprintf("Missing arguments for %s", ToolListRecordings)), nil
	}

	var in listArgs
	if err := common.DecodeArgs(args, &in); err != nil {
		return errorResult(err.Error()), nil
	}
	if in.AccessToken == "" {
		return errorResult("zoom_access_token is required"), nil
	}

	client, err := h.newClient(zoom.Credentials{AccessToken: in.AccessToken})
	if err != nil {
		return errorResult(err.Error()), nil
	}

	return toolResult(ctx, client.ListRecordings(ctx, zoom.ListRecordingsParams{
		From:       in.FromDate,
		To:         in.ToDate,
		PageSize:   in.PageSize,
		PageNumber: in.PageNumber,
	})), nil
}

func (h *handlers) handleGetRecordingDetails(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, meetingID, errResult := h.meetingClient(request, ToolGetRecordingDetails)
	if errResult != nil {
		return errResult, nil
	}
	return toolResult(ctx, client.GetRecordingDetails(ctx, meetingID)), nil
}

func (h *handlers) handleGetMeetingTranscript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, meetingID, errResult := h.meetingClient(request, ToolGetMeetingTranscript)
	if errResult != nil {
		return errResult, nil
	}
	return toolResult(ctx, client.GetMeetingTranscript(ctx, meetingID)), nil
}

// meetingClient validates the arguments shared by the per-meeting tools and
// builds the client.
func (h *handlers) meetingClient(request mcp.CallToolRequest, tool string) (zoomAPI, string, *mcp.CallToolResult) {
	args := request.GetArguments()
	if len(args) == 0 {
		return nil, "", errorResult(fmt.Sprintf("Missing arguments for %s", tool))
	}

	var in meetingArgs
	if err := common.DecodeArgs(args, &in); err != nil {
		return nil, "", errorResult(err.Error())
	}
	if in.AccessToken == "" {
		return nil, "", errorResult("zoom_access_token is required")
	}

	client, err := h.newClient(zoom.Credentials{AccessToken: in.AccessToken})
	if err != nil {
		return nil, "", errorResult(err.Error())
	}

	if in.MeetingID == "" {
		return nil, "", errorResult("meeting_id is required")
	}

	return client, in.MeetingID, nil
}

// toolResult renders a client result as the tool's single text content.
// Failures are flagged as error results and reported to the instrumentation.
func toolResult(ctx context.Context, res zoom.Result) *mcp.CallToolResult {
	if apiErr := res.Err(); apiErr != nil {
		common.ReportFailure(ctx, string(apiErr.Kind), apiErr.Message)
		return mcp.NewToolResultError(res.String())
	}
	return mcp.NewToolResultText(res.String())
}

// errorResult reports argument and construction problems.
func errorResult(msg string) *mcp.CallToolResult {
	return mcp.NewToolResultError("Error: " + msg)
}
