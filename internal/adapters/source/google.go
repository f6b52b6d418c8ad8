package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
)

const googleSheetMimeType = "application/vnd.google-apps.spreadsheet"

// ClientOptions returns the options shared by the Drive and Sheets clients:
// a service-account key when credentialsFile is set, read-only scopes
// otherwise through application default credentials.
func ClientOptions(credentialsFile string) []option.ClientOption {
	opts := []option.ClientOption{
		option.WithScopes(drive.DriveReadonlyScope, sheets.SpreadsheetsReadonlyScope),
	}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	return opts
}

// DriveGPS downloads the GPS export from a shared-drive file. Native
// spreadsheets are exported as CSV, uploaded files are downloaded as is.
type DriveGPS struct {
	service *drive.Service
	fileID  string
}

// NewDriveGPS creates a Drive-backed GPS source.
func NewDriveGPS(ctx context.Context, fileID string, opts ...option.ClientOption) (*DriveGPS, error) {
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create drive client: %w", err)
	}
	return &DriveGPS{service: svc, fileID: fileID}, nil
}

// Sessions implements GPSSource.
func (d *DriveGPS) Sessions(ctx context.Context) ([]model.SessionRecord, error) {
	meta, err := d.service.Files.Get(d.fileID).Fields("id, name, mimeType").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: drive file %s: %w", ErrFetch, d.fileID, err)
	}

	var resp *http.Response
	if meta.MimeType == googleSheetMimeType {
		resp, err = d.service.Files.Export(d.fileID, "text/csv").Context(ctx).Download()
	} else {
		resp, err = d.service.Files.Get(d.fileID).Context(ctx).Download()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: download %s: %w", ErrFetch, meta.Name, err)
	}
	defer func() {
		drain(resp.Body)
		_ = resp.Body.Close()
	}()

	recs, err := ParseSessionsCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", meta.Name, err)
	}
	return recs, nil
}

// SheetsRPE reads questionnaire answers from a form response sheet.
type SheetsRPE struct {
	service       *sheets.Service
	spreadsheetID string
	readRange     string
	offset        time.Duration
}

// NewSheetsRPE creates a Sheets-backed RPE source.
func NewSheetsRPE(ctx context.Context, spreadsheetID, readRange string, offset time.Duration, opts ...option.ClientOption) (*SheetsRPE, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets client: %w", err)
	}
	return &SheetsRPE{service: svc, spreadsheetID: spreadsheetID, readRange: readRange, offset: offset}, nil
}

// Responses implements RPESource.
func (s *SheetsRPE) Responses(ctx context.Context) ([]model.RpeResponse, error) {
	vr, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		if gerr, ok := err.(*googleapi.Error); ok && gerr.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: sheet %s not found: %w", ErrFetch, s.spreadsheetID, err)
		}
		return nil, fmt.Errorf("%w: sheet %s: %w", ErrFetch, s.spreadsheetID, err)
	}
	return ParseResponseRows(stringRows(vr.Values), s.offset)
}

func stringRows(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		rows[i] = make([]string, len(row))
		for j, v := range row {
			rows[i][j] = fmt.Sprint(v)
		}
	}
	return rows
}

// drain discards what is left of a body so the connection can be reused.
func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, r)
}
