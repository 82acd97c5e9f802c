package assembly

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultEUtilsURL is the NCBI E-utilities endpoint.
const DefaultEUtilsURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

var accessionPattern = regexp.MustCompile(`^GC[FA]_\d{9}\.\d{1,2}$`)

// NormalizeAccession upper-cases and validates an assembly accession such as
// GCF_000001405.40.
func NormalizeAccession(accession string) (string, error) {
	acc := strings.ToUpper(strings.TrimSpace(accession))
	if !accessionPattern.MatchString(acc) {
		return "", &ConfigurationError{
			Field:  "assembly accession",
			Value:  accession,
			Reason: "expected GCF_ or GCA_ followed by 9 digits and a version",
		}
	}
	return acc, nil
}

// Fetcher retrieves assembly reports through NCBI E-utilities.
type Fetcher struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewFetcher creates a fetcher against the public E-utilities endpoint.
func NewFetcher() *Fetcher {
	return &Fetcher{
		baseURL: DefaultEUtilsURL,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
		logger: zap.NewNop(),
	}
}

// SetBaseURL overrides the E-utilities endpoint.
func (f *Fetcher) SetBaseURL(u string) {
	f.baseURL = strings.TrimRight(u, "/")
}

// SetAPIKey sets the NCBI API key sent with every E-utilities request.
func (f *Fetcher) SetAPIKey(key string) {
	f.apiKey = key
}

// SetLogger sets the logger for progress messages.
func (f *Fetcher) SetLogger(l *zap.Logger) {
	f.logger = l
}

type esearchResult struct {
	Count    string `xml:"Count"`
	QueryKey string `xml:"QueryKey"`
	WebEnv   string `xml:"WebEnv"`
}

type esummaryResult struct {
	Docs []struct {
		ReportPath string `xml:"FtpPath_Assembly_rpt"`
	} `xml:"DocumentSummarySet>DocumentSummary"`
}

// ReportURL resolves the download URL of the assembly report for accession.
func (f *Fetcher) ReportURL(ctx context.Context, accession string) (string, error) {
	acc, err := NormalizeAccession(accession)
	if err != nil {
		return "", err
	}

	var search esearchResult
	if err := f.getXML(ctx, "esearch.fcgi", url.Values{
		"db":         {"assembly"},
		"term":       {acc + "[Assembly Accession]"},
		"usehistory": {"y"},
	}, &search); err != nil {
		return "", fmt.Errorf("esearch %s: %w", acc, err)
	}
	if search.Count != "1" {
		return "", fmt.Errorf("esearch %s: expected 1 record, found %q", acc, search.Count)
	}

	var summary esummaryResult
	if err := f.getXML(ctx, "esummary.fcgi", url.Values{
		"db":        {"assembly"},
		"query_key": {search.QueryKey},
		"WebEnv":    {search.WebEnv},
	}, &summary); err != nil {
		return "", fmt.Errorf("esummary %s: %w", acc, err)
	}
	if len(summary.Docs) == 0 || summary.Docs[0].ReportPath == "" {
		return "", fmt.Errorf("esummary %s: no assembly report path", acc)
	}

	path := summary.Docs[0].ReportPath
	if strings.HasPrefix(path, "ftp://") {
		path = "https://" + strings.TrimPrefix(path, "ftp://")
	}
	return path, nil
}

// Report is an assembly report downloaded from NCBI.
type Report struct {
	Accession string
	URL       string
	Rows      []string
}

// FetchReport downloads the assembly report for accession.
func (f *Fetcher) FetchReport(ctx context.Context, accession string) (*Report, error) {
	acc, err := NormalizeAccession(accession)
	if err != nil {
		return nil, err
	}
	reportURL, err := f.ReportURL(ctx, acc)
	if err != nil {
		return nil, err
	}

	f.logger.Info("downloading assembly report", zap.String("accession", acc), zap.String("url", reportURL))
	body, err := f.get(ctx, reportURL)
	if err != nil {
		return nil, fmt.Errorf("download assembly report: %w", err)
	}

	return &Report{
		Accession: acc,
		URL:       reportURL,
		Rows:      SplitReport(string(body)),
	}, nil
}

func (f *Fetcher) getXML(ctx context.Context, endpoint string, params url.Values, v any) error {
	if f.apiKey != "" {
		params.Set("api_key", f.apiKey)
	}
	body, err := f.get(ctx, f.baseURL+"/"+endpoint+"?"+params.Encode())
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (f *Fetcher) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	f.logger.Debug("GET", zap.String("url", u))
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
