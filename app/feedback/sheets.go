package feedback

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsAppender appends rows to a named worksheet through the Google
// Sheets API.
type SheetsAppender struct {
	service       *sheets.Service
	spreadsheetID string
	worksheet     string
}

func NewSheetsAppender(ctx context.Context, creds CredentialProvider, spreadsheetID, worksheet string, opts ...option.ClientOption) (*SheetsAppender, error) {
	if creds == nil {
		return nil, fmt.Errorf("no credential provider configured")
	}

	key, err := creds.Credentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	opts = append([]option.ClientOption{
		option.WithCredentialsJSON(key),
		option.WithScopes(sheets.SpreadsheetsScope),
	}, opts...)

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return NewSheetsAppenderWithService(service, spreadsheetID, worksheet), nil
}

func NewSheetsAppenderWithService(service *sheets.Service, spreadsheetID, worksheet string) *SheetsAppender {
	if worksheet == "" {
		worksheet = DefaultWorksheet
	}
	return &SheetsAppender{
		service:       service,
		spreadsheetID: spreadsheetID,
		worksheet:     worksheet,
	}
}

// Append writes values verbatim as one new row. RAW input keeps text such as
// "=SUM(A1)" or "3" from being parsed as formulas or numbers.
func (a *SheetsAppender) Append(ctx context.Context, values []string) error {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}

	_, err := a.service.Spreadsheets.Values.
		Append(a.spreadsheetID, quoteSheetName(a.worksheet), &sheets.ValueRange{
			Values: [][]interface{}{row},
		}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return a.classify(err)
	}

	return nil
}

func (a *SheetsAppender) classify(err error) *SubmissionError {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return &SubmissionError{Message: "피드백 저장소 인증에 실패했습니다", Err: err}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return &SubmissionError{Message: "피드백 저장소에 접근할 권한이 없습니다", Err: err}
		case apiErr.Code == http.StatusNotFound,
			apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "Unable to parse range"):
			return &SubmissionError{Message: fmt.Sprintf("'%s' 워크시트를 찾을 수 없습니다", a.worksheet), Err: err}
		default:
			return &SubmissionError{Message: "피드백 저장소에서 오류가 발생했습니다", Err: err}
		}
	}

	return &SubmissionError{Message: "피드백 저장소에 연결할 수 없습니다", Err: err}
}

// quoteSheetName turns a worksheet title into an A1 range covering the sheet.
func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
