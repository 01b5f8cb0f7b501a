package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"halaqa_points/internal/retry"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Credentials selects how the service account authenticates. File wins when
// both are set.
type Credentials struct {
	File        string
	ClientEmail string
	PrivateKey  string
}

// Client reads value ranges from one spreadsheet through the Sheets v4 API.
type Client struct {
	service       *sheets.Service
	spreadsheetID string
}

func NewClient(ctx context.Context, spreadsheetID string, creds Credentials) (*Client, error) {
	credOpt, err := credentialsOption(creds)
	if err != nil {
		return nil, err
	}

	service, err := sheets.NewService(ctx, credOpt, option.WithScopes(sheets.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

func credentialsOption(creds Credentials) (option.ClientOption, error) {
	if creds.File != "" {
		return option.WithCredentialsFile(creds.File), nil
	}
	if creds.ClientEmail == "" || creds.PrivateKey == "" {
		return nil, errors.New("no sheets credentials: set a credentials file or client email and private key")
	}

	// keys pasted into .env files carry literal \n sequences
	key := strings.ReplaceAll(creds.PrivateKey, `\n`, "\n")
	raw, err := json.Marshal(map[string]string{
		"type":         "service_account",
		"client_email": creds.ClientEmail,
		"private_key":  key,
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode service account credentials: %w", err)
	}
	return option.WithCredentialsJSON(raw), nil
}

// Rows returns the values of rangeName as strings. Requests rejected by the API
// (bad range, missing permission) are marked permanent so they are not retried.
func (c *Client) Rows(ctx context.Context, rangeName string) ([][]string, error) {
	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, rangeName).Context(ctx).Do()
	if err != nil {
		err = fmt.Errorf("failed to read sheet range %q: %w", rangeName, err)
		if !isRetryable(err) {
			return nil, retry.Permanent(err)
		}
		return nil, err
	}

	return stringify(resp.Values), nil
}

func isRetryable(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return true
	}
	return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500
}

func stringify(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		rows[i] = make([]string, len(row))
		for j, v := range row {
			if v != nil {
				rows[i][j] = fmt.Sprintf("%v", v)
			}
		}
	}
	return rows
}
