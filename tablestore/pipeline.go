package tablestore

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tablestore-go/tablestore/protocol"
)

const (
	apiVersion = "2015-12-31"
	userAgent  = "tablestore-go-sdk/1.0"
)

// httpRequest/httpResponse are the minimal shapes the transport
// interface trades in — deliberately not *http.Request/*http.Response
// so a test fake doesn't need to round-trip through net/http at all
// (SPEC_FULL.md §4.5a).
type httpRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

type httpResponse struct {
	StatusCode int
	Headers    map[string]string // lower-cased header names
	Body       []byte
}

// transport is the one collaborator the pipeline doesn't implement
// itself (spec.md §1's "the concrete HTTP transport" Non-goal): the
// default is httpTransport, swappable in tests for a fake that returns
// canned PB bytes.
type transport interface {
	RoundTrip(ctx context.Context, req *httpRequest) (*httpResponse, error)
}

// httpTransport is the default transport, backed by net/http.Client.
type httpTransport struct {
	client *http.Client
}

func newHTTPTransport(requestTimeout time.Duration) *httpTransport {
	return &httpTransport{client: &http.Client{Timeout: requestTimeout}}
}

func (t *httpTransport) RoundTrip(ctx context.Context, req *httpRequest) (*httpResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, err
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	headers := make(map[string]string, len(resp.Header))
	for name := range resp.Header {
		headers[strings.ToLower(name)] = resp.Header.Get(name)
	}
	return &httpResponse{StatusCode: resp.StatusCode, Headers: headers, Body: body}, nil
}

// pipeline is the per-Client collaborator that runs the acquire → sign
// → send → parse → retry loop of spec.md §4.5.
type pipeline struct {
	cfg      Config
	creds    Credentials
	endpoint Endpoint
	pool     *connPool
	tr       transport
	logger   *log.Logger
}

func newPipeline(cfg Config, creds Credentials, endpoint Endpoint, tr transport) *pipeline {
	return &pipeline{
		cfg:      cfg,
		creds:    creds,
		endpoint: endpoint,
		pool:     newConnPool(cfg.MaxConnections, cfg.ConnectTimeout, cfg.EnableKeepAlive),
		tr:       tr,
		logger:   log.Default(),
	}
}

// rebuildFunc returns the request body for an attempt (0-based: 0 is
// the first send, so prevRespBody is nil there),
// given the previous attempt's raw response body (nil on a transport
// failure, a 2xx body on a synthesized batch retry). Most callers use
// constantBody, which always resends the same bytes; batch callers
// shrink the request to only the sub-operations that failed.
type rebuildFunc func(attempt int, prevRespBody []byte) ([]byte, error)

func constantBody(body []byte) rebuildFunc {
	return func(int, []byte) ([]byte, error) { return body, nil }
}

// synthesizeFunc lets a batch caller derive a synthetic retry-decision
// error from an otherwise-successful (2xx) response body, per spec.md
// §4.5's "the pipeline calls shouldRetry with a synthetic per-request
// error derived from the worst-row error in the response".
type synthesizeFunc func(respBody []byte) error

// invoke runs the full attempt/retry loop for one logical call and
// returns the final response body (from the last attempt, whether or
// not it ultimately succeeded — callers that need partial results, like
// batch operations, decode it even on a returned error).
func (p *pipeline) invoke(ctx context.Context, action Action, rebuild rebuildFunc, synthesize synthesizeFunc) ([]byte, error) {
	traceID := uuid.NewString()
	strategy := p.cfg.RetryStrategy.Clone()
	start := time.Now()

	var respBody []byte
	for attempt := 0; ; attempt++ {
		body, err := rebuild(attempt, respBody)
		if err != nil {
			return nil, wrapClientError(traceID, err, "building request body")
		}

		respBody, err = p.attempt(ctx, action, traceID, body)

		effErr := err
		if effErr == nil && synthesize != nil {
			effErr = synthesize(respBody)
		}
		if effErr == nil {
			p.traceIfSlow(action, traceID, time.Since(start))
			return respBody, nil
		}
		if !strategy.ShouldRetry(action, effErr, attempt) {
			p.traceIfSlow(action, traceID, time.Since(start))
			return respBody, effErr
		}
		pause := strategy.NextPause(attempt + 1)
		p.logger.Printf("tablestore: %s attempt %d failed (%v), retrying in %s [trace=%s]", action, attempt, effErr, pause, traceID)
		time.Sleep(pause)
	}
}

// traceIfSlow emits the "call exceeded the trace threshold" diagnostic
// spec.md §6 asks of the TraceThreshold option. A zero threshold
// disables the check (matching WithTraceThreshold(0) as "never trace").
func (p *pipeline) traceIfSlow(action Action, traceID string, elapsed time.Duration) {
	if p.cfg.TraceThreshold <= 0 || elapsed < p.cfg.TraceThreshold {
		return
	}
	p.logger.Printf("tablestore: TRACE %s took %s, exceeding threshold %s [trace=%s]", action, elapsed, p.cfg.TraceThreshold, traceID)
}

// attempt performs exactly one HTTP round trip: acquire a connection,
// sign, send, validate the response shape, and translate any failure
// into a *ClientError or *ServerError (spec.md §4.5 steps 2-4).
func (p *pipeline) attempt(ctx context.Context, action Action, traceID string, body []byte) ([]byte, error) {
	conn, err := p.pool.acquire(traceID)
	if err != nil {
		return nil, err
	}
	defer p.pool.release(conn)

	sum := md5.Sum(body)
	contentMD5 := base64.StdEncoding.EncodeToString(sum[:])

	headers := map[string]string{
		"x-ots-date":         time.Now().UTC().Format(time.RFC3339),
		"x-ots-apiversion":   apiVersion,
		"x-ots-accesskeyid":  p.creds.AccessKeyID,
		"x-ots-contentmd5":   contentMD5,
		"x-ots-instancename": p.cfg.InstanceName,
		"x-ots-sdk-traceid":  traceID,
	}
	if p.creds.STSToken != "" {
		headers["x-ots-ststoken"] = p.creds.STSToken
	}
	if err := validateHeaderValues(headers); err != nil {
		return nil, wrapClientError(traceID, err, "building request headers")
	}
	headers["x-ots-signature"] = signRequest(p.creds.AccessKeySecret, string(action), http.MethodPost, headers)
	headers["User-Agent"] = userAgent
	headers["Content-Type"] = "application/x-protobuf"

	req := &httpRequest{
		Method:  http.MethodPost,
		URL:     fmt.Sprintf("%s/%s", p.endpoint.String(), action),
		Headers: headers,
		Body:    body,
	}

	resp, err := p.tr.RoundTrip(ctx, req)
	if err != nil {
		return nil, wrapClientError(traceID, err, "sending request")
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if resp.Headers["x-ots-requestid"] == "" {
			return nil, newClientError(traceID, "response missing x-ots-requestid header")
		}
		if p.cfg.CheckResponseDigest {
			if want := resp.Headers["x-ots-contentmd5"]; want != "" {
				sum := md5.Sum(resp.Body)
				got := base64.StdEncoding.EncodeToString(sum[:])
				if got != want {
					return nil, newClientError(traceID, "response content-md5 mismatch")
				}
			}
		}
		return resp.Body, nil
	}

	code, message := protocol.DecodeError(resp.Body)
	if code == "" {
		message = string(resp.Body)
	}
	return nil, &ServerError{
		Code:       code,
		Message:    message,
		RequestID:  resp.Headers["x-ots-requestid"],
		TraceID:    traceID,
		StatusCode: resp.StatusCode,
	}
}

func validateHeaderValues(headers map[string]string) error {
	for name, v := range headers {
		if strings.ContainsAny(v, "\r\n") {
			return fmt.Errorf("header %s contains a carriage return or newline", name)
		}
	}
	return nil
}
