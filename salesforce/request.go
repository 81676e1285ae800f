package salesforce

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// SessionSource supplies a session id for SOAP calls, eg. an OAuth access
// token from TokenCache.
type SessionSource interface {
	Get(ctx context.Context) (string, error)
}

type soapRequest struct {
	url    string
	action string
	body   []byte
}

type soapReply struct {
	statusCode int
	body       []byte
}

// send posts a SOAP envelope and returns the status code and body. Non-2xx
// codes are not errors here: SOAP faults are delivered with status 500.
func send(ctx context.Context, client HttpClient, r soapRequest) (*soapReply, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(r.body))
	if err != nil {
		return nil, fmt.Errorf("unable to create salesforce request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", `"`+r.action+`"`)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to send request to salesforce: %w", err)
	}
	defer resp.Body.Close()

	resBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read salesforce response: %w", err)
	}
	return &soapReply{statusCode: resp.StatusCode, body: resBody}, nil
}
