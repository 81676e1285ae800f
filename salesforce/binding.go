package salesforce

import (
	"context"
	"errors"
	"fmt"
	"github.com/cenkalti/backoff/v4"
	"github.com/ellogroup/ello-golang-salesforce-soap/salesforce/soap"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"sync"
)

// RemoteBinding is the transport a Connection drives. Implementations own
// the session and the wire format; Connection only builds parameters and
// interprets responses.
type RemoteBinding interface {
	Login(ctx context.Context, username, password string) error
	CallRemote(ctx context.Context, method string, params Params) (Response, error)
}

type BindingParams struct {
	HttpClient HttpClient `validate:"required"`
	URL        string     `validate:"required,url"`
	// SessionSource, when set, replaces the SOAP login: its tokens are sent
	// as session ids to URL.
	SessionSource SessionSource
	// Backoff retries transport failures during login. Defaults to no retry.
	Backoff backoff.BackOff
	Logger  *zap.Logger
}

// SoapBinding is the default RemoteBinding, speaking the partner SOAP API
// over HTTP.
type SoapBinding struct {
	client  HttpClient
	url     string
	source  SessionSource
	backoff backoff.BackOff
	log     *zap.Logger

	mu        sync.Mutex
	sessionID string
	serverURL string
}

func NewSoapBinding(p BindingParams) (*SoapBinding, error) {
	if err := validator.New().Struct(p); err != nil {
		return nil, err
	}

	b := p.Backoff
	if b == nil {
		b = &backoff.StopBackOff{}
	}
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &SoapBinding{
		client:  p.HttpClient,
		url:     p.URL,
		source:  p.SessionSource,
		backoff: b,
		log:     log.Named("SalesforceSoapBinding"),
	}, nil
}

// URL returns the login endpoint the binding was created with.
func (s *SoapBinding) URL() string {
	return s.url
}

// ServerURL returns the endpoint calls are sent to after login.
func (s *SoapBinding) ServerURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serverURL
}

func (s *SoapBinding) Login(ctx context.Context, username, password string) error {
	if s.source != nil {
		if _, err := s.source.Get(ctx); err != nil {
			return fmt.Errorf("unable to obtain salesforce session: %w", err)
		}
		s.setSession("", s.url)
		return nil
	}

	params, err := BuildParams(opLogin, username, password)
	if err != nil {
		return err
	}

	res, err := backoff.RetryWithData[loginResult](func() (loginResult, error) {
		resp, err := s.post(ctx, s.url, "", opLogin, params)
		if err != nil {
			var te *TransportError
			if errors.As(err, &te) && te.StatusCode < 500 {
				return loginResult{}, backoff.Permanent(err)
			}
			s.log.Warn("salesforce login attempt failed", zap.Error(err))
			return loginResult{}, err
		}
		o := resolveResponse(opLogin, resp)
		if o.fault != nil {
			return loginResult{}, backoff.Permanent(o.fault)
		}
		lr, ok := parseLoginResult(o.result)
		if !ok {
			return loginResult{}, backoff.Permanent(errors.New("salesforce login response has no session"))
		}
		return lr, nil
	}, backoff.WithContext(s.backoff, ctx))
	if err != nil {
		return err
	}

	s.setSession(res.SessionID, res.ServerURL)
	s.log.Debug("logged in to salesforce", zap.String("serverUrl", res.ServerURL))
	return nil
}

func (s *SoapBinding) CallRemote(ctx context.Context, method string, params Params) (Response, error) {
	sessionID, serverURL, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	return s.post(ctx, serverURL, sessionID, method, params)
}

func (s *SoapBinding) post(ctx context.Context, url, sessionID, method string, params Params) (Response, error) {
	body, err := soap.EncodeCall(method, params.soap())
	if err != nil {
		return nil, fmt.Errorf("unable to create salesforce payload: %w", err)
	}
	env, err := soap.NewEnvelope().WithSession(sessionID).WithBody(body).Marshal()
	if err != nil {
		return nil, fmt.Errorf("unable to create salesforce payload: %w", err)
	}

	s.log.Debug("calling salesforce", zap.String("method", method), zap.Int("params", len(params)))
	reply, err := send(ctx, s.client, soapRequest{url: url, action: method, body: env})
	if err != nil {
		return nil, err
	}

	decoded, err := soap.DecodeBody(reply.body)
	if err != nil {
		if reply.statusCode < 200 || reply.statusCode > 299 {
			return nil, &TransportError{StatusCode: reply.statusCode, Method: method}
		}
		return nil, err
	}
	if _, fault := decoded["Fault"]; !fault && (reply.statusCode < 200 || reply.statusCode > 299) {
		return nil, &TransportError{StatusCode: reply.statusCode, Method: method}
	}
	return Response(decoded), nil
}

func (s *SoapBinding) session(ctx context.Context) (string, string, error) {
	s.mu.Lock()
	sessionID, serverURL := s.sessionID, s.serverURL
	s.mu.Unlock()

	if serverURL == "" {
		return "", "", errors.New("salesforce binding is not logged in")
	}
	if s.source != nil {
		tok, err := s.source.Get(ctx)
		if err != nil {
			return "", "", fmt.Errorf("unable to obtain salesforce session: %w", err)
		}
		sessionID = tok
	}
	return sessionID, serverURL, nil
}

func (s *SoapBinding) setSession(sessionID, serverURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID = sessionID
	s.serverURL = serverURL
}
