package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
)

// LambdaFunc is the signature lambda.Start expects for API Gateway proxy events
type LambdaFunc func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// LambdaHandler serves API Gateway proxy events through h
func LambdaHandler(h http.Handler) LambdaFunc {
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		req, err := newHTTPRequest(ctx, event)
		if err != nil {
			return events.APIGatewayProxyResponse{}, err
		}

		rec := newBufferedResponse()
		h.ServeHTTP(rec, req)

		return rec.proxyResponse(), nil
	}
}

func newHTTPRequest(ctx context.Context, event events.APIGatewayProxyRequest) (*http.Request, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode request body: %w", err)
		}
		body = decoded
	}

	query := url.Values{}
	if len(event.MultiValueQueryStringParameters) > 0 {
		for k, vs := range event.MultiValueQueryStringParameters {
			query[k] = append(query[k], vs...)
		}
	} else {
		for k, v := range event.QueryStringParameters {
			query.Set(k, v)
		}
	}

	path := event.Path
	if path == "" {
		path = "/"
	}
	target := &url.URL{Path: path, RawQuery: query.Encode()}

	req, err := http.NewRequestWithContext(ctx, event.HTTPMethod, target.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	if len(event.MultiValueHeaders) > 0 {
		for k, vs := range event.MultiValueHeaders {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
	} else {
		for k, v := range event.Headers {
			req.Header.Set(k, v)
		}
	}

	req.Host = req.Header.Get("Host")
	req.RemoteAddr = event.RequestContext.Identity.SourceIP
	req.RequestURI = target.RequestURI()

	return req, nil
}

// bufferedResponse collects a handler's response for the proxy integration
type bufferedResponse struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{header: make(http.Header)}
}

func (b *bufferedResponse) Header() http.Header {
	return b.header
}

func (b *bufferedResponse) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

func (b *bufferedResponse) proxyResponse() events.APIGatewayProxyResponse {
	status := b.status
	if status == 0 {
		status = http.StatusOK
	}

	resp := events.APIGatewayProxyResponse{
		StatusCode:        status,
		MultiValueHeaders: make(map[string][]string, len(b.header)),
	}
	for k, vs := range b.header {
		resp.MultiValueHeaders[k] = append([]string(nil), vs...)
	}

	body := b.body.Bytes()
	contentType := b.header.Get("Content-Type")
	if utf8.Valid(body) && !strings.HasPrefix(contentType, "application/octet-stream") {
		resp.Body = string(body)
	} else {
		resp.Body = base64.StdEncoding.EncodeToString(body)
		resp.IsBase64Encoded = true
	}

	return resp
}
