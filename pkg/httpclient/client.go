package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/lms-student-client/pkg/errors"
	"github.com/noah-isme/lms-student-client/pkg/logger"
	"github.com/noah-isme/lms-student-client/pkg/middleware/requestid"
)

// Config locates the API.
type Config struct {
	BaseURL string
	Prefix  string
}

// Option customises a Client.
type Option func(*Client)

// WithLogger logs each request through the provided logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithObserver reports request outcomes, typically to Prometheus.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithTransport replaces the innermost round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.base = rt }
}

// Client is the single shared HTTP client of the application. It never
// retries and imposes no timeout of its own; callers bound requests with
// their context.
type Client struct {
	baseURL  string
	prefix   string
	tokens   TokenSource
	logger   *zap.Logger
	observer Observer
	base     http.RoundTripper
	http     *http.Client
}

// New builds a Client. tokens is consulted on every request.
func New(cfg Config, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		prefix:  cfg.Prefix,
		tokens:  tokens,
		logger:  zap.NewNop(),
		base:    http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(c)
	}

	var rt http.RoundTripper = c.base
	if c.observer != nil {
		rt = observe(c.observer, rt)
	}
	rt = logger.Transport(c.logger, rt)
	rt = requestid.Transport(rt)
	rt = Bearer(tokens, rt)

	c.http = &http.Client{Transport: rt}
	return c
}

// Request describes one API call. Path is relative to the API prefix.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
	Form   *Form
}

// Form is a multipart/form-data payload. Fields keep their order.
type Form struct {
	Fields []Field
	Files  []File
}

// Field is one textual form value.
type Field struct {
	Name  string
	Value string
}

// File is one uploaded part.
type File struct {
	Field       string
	Name        string
	ContentType string
	Reader      io.Reader
}

// Download is an opaque binary response. The caller closes Body.
type Download struct {
	Body        io.ReadCloser
	ContentType string
	Filename    string
	Size        int64
}

// URL resolves an API path to an absolute URL.
func (c *Client) URL(path string, query url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + c.prefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Do performs the request and decodes a JSON 2xx body into out (when out is
// non-nil and the body is not empty). Non-2xx statuses become *errors.Error.
func (c *Client) Do(ctx context.Context, r Request, out interface{}) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrNetwork.Code, resp.StatusCode, "read response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return appErrors.FromResponse(resp.StatusCode, payload)
	}
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrDecode.Code, resp.StatusCode, fmt.Sprintf("decode %s %s", r.method(), r.Path))
	}
	return nil
}

// Download performs a GET and hands back the raw body stream.
func (c *Client) Download(ctx context.Context, path string) (*Download, error) {
	resp, err := c.send(ctx, Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close() //nolint:errcheck
		payload, _ := io.ReadAll(resp.Body)
		return nil, appErrors.FromResponse(resp.StatusCode, payload)
	}

	d := &Download{
		Body:        resp.Body,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		d.Filename = params["filename"]
	}
	return d, nil
}

func (c *Client) send(ctx context.Context, r Request) (*http.Response, error) {
	body, contentType, err := r.encode()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, r.method(), c.URL(r.Path, r.Query), body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", r.method(), r.Path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status, appErrors.ErrNetwork.Message)
	}
	return resp, nil
}

func (r Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(r.Method)
}

func (r Request) encode() (io.Reader, string, error) {
	switch {
	case r.Form != nil:
		return r.Form.encode()
	case r.Body != nil:
		raw, err := json.Marshal(r.Body)
		if err != nil {
			return nil, "", fmt.Errorf("encode %s body: %w", r.Path, err)
		}
		return bytes.NewReader(raw), "application/json", nil
	default:
		return nil, "", nil
	}
}

func (f *Form) encode() (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	for _, field := range f.Fields {
		if err := writer.WriteField(field.Name, field.Value); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", field.Name, err)
		}
	}
	for _, file := range f.Files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(file.Field), escapeQuotes(file.Name)))
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("create form file %s: %w", file.Name, err)
		}
		if file.Reader != nil {
			if _, err := io.Copy(part, file.Reader); err != nil {
				return nil, "", fmt.Errorf("copy form file %s: %w", file.Name, err)
			}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// SetString adds key=value to q only when value is non-empty, so that unset
// filters are absent from the query instead of sent empty.
func SetString(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

// SetInt adds key=value to q only when value is positive.
func SetInt(q url.Values, key string, value int) {
	if value > 0 {
		q.Set(key, strconv.Itoa(value))
	}
}
