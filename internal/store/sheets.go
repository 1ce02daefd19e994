package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/sales-dashboard/internal/config"
)

const (
	sheetsBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"
	sheetsScope   = "https://www.googleapis.com/auth/spreadsheets"
	jwtBearerType = "urn:ietf:params:oauth:grant-type:jwt-bearer"
)

// serviceAccountKey is the subset of a Google service-account JSON key file
// needed for the JWT grant.
type serviceAccountKey struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

// SheetsStore implements RowStore against the Google Sheets values API.
// Worksheet titles are the table names.
type SheetsStore struct {
	spreadsheetID string
	key           serviceAccountKey
	client        *http.Client
	logger        *zap.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewSheetsStore loads the service-account key and returns a ready client.
func NewSheetsStore(cfg config.SheetsConfig, logger *zap.Logger) (*SheetsStore, error) {
	raw, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read sheets credentials: %w", err)
	}

	var key serviceAccountKey
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, fmt.Errorf("parse sheets credentials: %w", err)
	}
	if key.ClientEmail == "" || key.PrivateKey == "" {
		return nil, fmt.Errorf("sheets credentials missing client_email or private_key")
	}
	if key.TokenURI == "" {
		key.TokenURI = "https://oauth2.googleapis.com/token"
	}

	return &SheetsStore{
		spreadsheetID: cfg.SpreadsheetID,
		key:           key,
		client:        &http.Client{Timeout: 30 * time.Second},
		logger:        logger,
	}, nil
}

// FetchAll reads the whole worksheet and keys each data row by the header row.
func (s *SheetsStore) FetchAll(ctx context.Context, table string) ([]Row, error) {
	endpoint := fmt.Sprintf("%s/%s/values/%s", sheetsBaseURL, s.spreadsheetID, url.PathEscape(table))

	var payload struct {
		Values [][]any `json:"values"`
	}
	if err := s.doJSON(ctx, http.MethodGet, endpoint, nil, &payload); err != nil {
		return nil, err
	}
	if len(payload.Values) < 2 {
		return []Row{}, nil
	}

	header := make([]string, len(payload.Values[0]))
	for i, cell := range payload.Values[0] {
		header[i] = cellString(cell)
	}

	rows := make([]Row, 0, len(payload.Values)-1)
	for _, raw := range payload.Values[1:] {
		row := make(Row, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(raw) {
				row[col] = cellString(raw[i])
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Append adds one row after the worksheet's last non-empty row.
func (s *SheetsStore) Append(ctx context.Context, table string, values []string) error {
	return s.AppendBatch(ctx, table, [][]string{values})
}

// AppendBatch adds all rows in a single values.append call.
func (s *SheetsStore) AppendBatch(ctx context.Context, table string, rows [][]string) error {
	endpoint := fmt.Sprintf("%s/%s/values/%s:append?valueInputOption=USER_ENTERED&insertDataOption=INSERT_ROWS",
		sheetsBaseURL, s.spreadsheetID, url.PathEscape(table))

	values := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}

	body := map[string]any{"values": values}
	return s.doJSON(ctx, http.MethodPost, endpoint, body, nil)
}

func (s *SheetsStore) doJSON(ctx context.Context, method, endpoint string, body any, out any) error {
	token, err := s.token(ctx)
	if err != nil {
		return err
	}

	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrTableNotFound, endpoint)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: sheets API status %d", ErrStoreUnavailable, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// token returns a cached access token, exchanging a signed service-account
// assertion when the cached one is missing or about to expire.
func (s *SheetsStore) token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken != "" && time.Until(s.tokenExpiry) > time.Minute {
		return s.accessToken, nil
	}

	assertion, err := s.signAssertion()
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("grant_type", jwtBearerType)
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.key.TokenURI, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token exchange: %v", ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token exchange status %d", ErrStoreUnavailable, resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode token: %v", ErrStoreUnavailable, err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrStoreUnavailable)
	}

	s.accessToken = payload.AccessToken
	s.tokenExpiry = time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	s.logger.Debug("refreshed sheets access token", zap.Time("expiry", s.tokenExpiry))
	return s.accessToken, nil
}

func (s *SheetsStore) signAssertion() (string, error) {
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(s.key.PrivateKey))
	if err != nil {
		return "", fmt.Errorf("parse service account key: %w", err)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   s.key.ClientEmail,
		"scope": sheetsScope,
		"aud":   s.key.TokenURI,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(privateKey)
}

func cellString(cell any) string {
	switch v := cell.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
