package salesforce

import (
	"context"
	"fmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"net/http"
	"os"
	"strings"
)

// Connection translates flexible method calls into the positional parameter
// sequences of the SOAP API and normalises what comes back. It is safe for
// sequential reuse; concurrent use is only as safe as its RemoteBinding.
type Connection struct {
	binding     RemoteBinding
	url         string
	environment Environment
	version     string
	wrapResults bool
	log         *zap.Logger
}

type connectionCfg struct {
	environment   Environment
	version       string
	wrapResults   bool
	log           *zap.Logger
	binding       RemoteBinding
	httpClient    HttpClient
	sessionSource SessionSource
	instanceURL   string
}

type Option func(*connectionCfg)

// WithEnvironment selects the live or test login host. Defaults to Live.
func WithEnvironment(env Environment) Option {
	return func(c *connectionCfg) { c.environment = env }
}

// WithVersion selects the API version. Defaults to DefaultVersion.
func WithVersion(version string) Option {
	return func(c *connectionCfg) { c.version = version }
}

// WithWrapResults controls whether single results are wrapped in a []any.
// Defaults to true.
func WithWrapResults(wrap bool) Option {
	return func(c *connectionCfg) { c.wrapResults = wrap }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *connectionCfg) { c.log = log }
}

// WithBinding supplies the RemoteBinding to use instead of a SoapBinding.
func WithBinding(b RemoteBinding) Option {
	return func(c *connectionCfg) { c.binding = b }
}

// WithHttpClient sets the client of the default SoapBinding.
func WithHttpClient(client HttpClient) Option {
	return func(c *connectionCfg) { c.httpClient = client }
}

// WithSession authenticates the default SoapBinding with tokens from src
// (eg. a TokenCache) against the given instance, instead of a password login.
func WithSession(src SessionSource, instanceURL string) Option {
	return func(c *connectionCfg) {
		c.sessionSource = src
		c.instanceURL = instanceURL
	}
}

// NewConnection resolves the endpoint, builds the binding and logs in.
// An unknown environment fails with *InvalidEnvironmentError before anything
// is sent; an unsupported version only logs a warning.
func NewConnection(ctx context.Context, username, passwordToken string, opts ...Option) (*Connection, error) {
	cfg := connectionCfg{
		environment: DefaultEnv,
		version:     DefaultVersion,
		wrapResults: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = defaultLogger()
	}
	log := cfg.log.Named("SalesforceConnection")

	url, err := URLForEnvironment(cfg.environment, cfg.version)
	if err != nil {
		return nil, err
	}
	checkVersion(log, cfg.version)

	binding := cfg.binding
	if binding == nil {
		binding, err = newDefaultBinding(cfg, url)
		if err != nil {
			return nil, fmt.Errorf("unable to create salesforce binding: %w", err)
		}
	}

	if err := binding.Login(ctx, username, passwordToken); err != nil {
		return nil, fmt.Errorf("unable to log in to salesforce: %w", err)
	}

	return &Connection{
		binding:     binding,
		url:         url,
		environment: cfg.environment,
		version:     cfg.version,
		wrapResults: cfg.wrapResults,
		log:         log,
	}, nil
}

func newDefaultBinding(cfg connectionCfg, url string) (*SoapBinding, error) {
	client := cfg.httpClient
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.sessionSource != nil {
		url = fmt.Sprintf("%s/services/Soap/u/%s", strings.TrimRight(cfg.instanceURL, "/"), cfg.version)
	}
	return NewSoapBinding(BindingParams{
		HttpClient:    client,
		URL:           url,
		SessionSource: cfg.sessionSource,
		Logger:        cfg.log,
	})
}

// defaultLogger writes warnings and above to stderr.
func defaultLogger() *zap.Logger {
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.Lock(os.Stderr), zap.WarnLevel))
}

// URL returns the endpoint resolved from the environment and version.
func (c *Connection) URL() string {
	return c.url
}

func (c *Connection) Binding() RemoteBinding {
	return c.binding
}

func (c *Connection) Environment() Environment {
	return c.environment
}

func (c *Connection) Version() string {
	return c.version
}

func (c *Connection) WrapResults() bool {
	return c.wrapResults
}

// SetWrapResults changes the result wrapping of subsequent calls.
func (c *Connection) SetWrapResults(wrap bool) {
	c.wrapResults = wrap
}

// MakeApiCall sends one remote call and returns its result. A fault in the
// response is returned as *FaultError with a nil result. Transport errors
// from the binding are returned unchanged.
func (c *Connection) MakeApiCall(ctx context.Context, method string, params Params) (any, error) {
	resp, err := c.binding.CallRemote(ctx, method, params)
	if err != nil {
		return nil, err
	}

	o := resolveResponse(method, resp)
	if o.fault != nil {
		c.log.Debug("salesforce returned a fault",
			zap.String("method", method),
			zap.String("faultCode", o.fault.Code),
		)
		return nil, o.fault
	}
	return unwrap(o.result, c.wrapResults), nil
}

func (c *Connection) invoke(ctx context.Context, method string, args ...any) (any, error) {
	params, err := BuildParams(method, args...)
	if err != nil {
		return nil, err
	}
	return c.MakeApiCall(ctx, method, params)
}
