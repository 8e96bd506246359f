package export

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// reportTemplate renders export rows as a styled tabular document. It is
// both the body sent to the PDF renderer and the HTML fallback artifact.
var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Arial, sans-serif; font-size: 10pt; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid black; padding: 4px 6px; text-align: left; }
th { background-color: #d3d3d3; font-weight: bold; }
td.green { background-color: #c6efce; }
td.amber { background-color: #ffeb9c; }
td.red { background-color: #ffc7ce; }
</style>
</head>
<body>
<h2>Service Metrics Report</h2>
<table>
<tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr><td>{{.FY}}</td><td>{{.Quarter}}</td><td>{{.WeekDate}}</td><td>{{.Metric}}</td><td>{{.Value}}</td><td>{{.Baseline}}</td><td>{{.Target}}</td><td>{{.Unit}}</td><td class="{{.Status}}">{{.Status}}</td><td>{{.Comment}}</td></tr>
{{end}}</table>
</body>
</html>
`))

// WriteHTML renders export rows as the styled HTML document.
func WriteHTML(w io.Writer, rows []Row) error {
	return reportTemplate.Execute(w, struct {
		Headers []string
		Rows    []Row
	}{Headers: Headers, Rows: rows})
}

// PDFRenderer converts HTML to PDF through a Gotenberg-compatible
// HTTP endpoint.
type PDFRenderer struct {
	endpoint   string
	httpClient *http.Client
}

// NewPDFRenderer constructs a renderer client for the given endpoint.
func NewPDFRenderer(endpoint string) *PDFRenderer {
	return &PDFRenderer{
		endpoint: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// RenderHTML converts raw HTML into PDF bytes.
func (p *PDFRenderer) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	if p.endpoint == "" {
		return nil, fmt.Errorf("pdf renderer endpoint required")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(part, html); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/forms/chromium/convert/html", p.endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("pdf renderer returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
