package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const googleSheetsHost = "docs.google.com"

var (
	ErrInvalidSheetURL = errors.New("구글 시트 URL이 올바르지 않습니다")
	ErrSheetNotPublic  = errors.New("구글 시트를 읽을 수 없습니다. 링크 공유가 '링크가 있는 모든 사용자'로 설정되어 있는지 확인하세요")
	ErrSheetTooLarge   = errors.New("구글 시트 데이터가 너무 큽니다")
)

var sheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// SheetsFetcher downloads the CSV export of a shared spreadsheet.
type SheetsFetcher struct {
	client       *resty.Client
	allowedHosts map[string]bool
}

// NewSheetsFetcher only fetches from docs.google.com unless other hosts are listed.
func NewSheetsFetcher(timeout time.Duration, maxBytes int64, allowedHosts ...string) *SheetsFetcher {
	hosts := map[string]bool{googleSheetsHost: true}
	for _, h := range allowedHosts {
		hosts[h] = true
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "text/csv").
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))
	if maxBytes > 0 {
		// 본문을 읽는 도중 한도를 넘으면 중단
		client.SetResponseBodyLimit(int(maxBytes))
	}

	return &SheetsFetcher{client: client, allowedHosts: hosts}
}

// ExportURL turns an edit or share link into its CSV export link. Links that already
// request CSV are returned unchanged.
func ExportURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		return "", ErrInvalidSheetURL
	}

	q := u.Query()
	if q.Get("format") == "csv" || q.Get("output") == "csv" {
		return u.String(), nil
	}

	m := sheetIDPattern.FindStringSubmatch(u.Path)
	if m == nil {
		return "", ErrInvalidSheetURL
	}

	gid := q.Get("gid")
	if gid == "" && strings.HasPrefix(u.Fragment, "gid=") {
		gid = strings.TrimPrefix(u.Fragment, "gid=")
	}
	if gid == "" {
		gid = "0"
	}

	export := url.URL{
		Scheme:   "https",
		Host:     u.Host,
		Path:     fmt.Sprintf("/spreadsheets/d/%s/export", m[1]),
		RawQuery: url.Values{"format": {"csv"}, "gid": {gid}}.Encode(),
	}
	return export.String(), nil
}

// Fetch downloads and parses the sheet behind raw.
func (f *SheetsFetcher) Fetch(ctx context.Context, raw string) (*Sheet, []byte, error) {
	exportURL, err := ExportURL(raw)
	if err != nil {
		return nil, nil, err
	}
	u, _ := url.Parse(exportURL)
	if !f.allowedHosts[u.Hostname()] && !f.allowedHosts[u.Host] {
		return nil, nil, ErrInvalidSheetURL
	}

	resp, err := f.client.R().SetContext(ctx).Get(exportURL)
	if errors.Is(err, resty.ErrResponseBodyTooLarge) {
		return nil, nil, ErrSheetTooLarge
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch sheet: %w", err)
	}
	if resp.IsError() {
		if resp.StatusCode() == 401 || resp.StatusCode() == 403 || resp.StatusCode() == 404 {
			return nil, nil, ErrSheetNotPublic
		}
		return nil, nil, fmt.Errorf("failed to fetch sheet: status %d", resp.StatusCode())
	}
	// 비공개 시트는 200과 함께 로그인 페이지(HTML)를 돌려준다
	if strings.Contains(resp.Header().Get("Content-Type"), "text/html") {
		return nil, nil, ErrSheetNotPublic
	}

	body := resp.Body()
	sheet, err := ReadCSV(bytes.NewReader(body))
	if err != nil {
		return nil, nil, err
	}
	return sheet, body, nil
}
