package salesforce

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"github.com/cenkalti/backoff/v4"
	"github.com/ellogroup/ello-golang-cache/cache"
	"github.com/ellogroup/ello-golang-cache/driver"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"io"
	"net/http"
	"net/url"
	"time"
)

const tokenTtl = 1 * time.Hour
const tokenCacheTtl = 58 * time.Minute

type TokenParams struct {
	HttpClient HttpClient    `validate:"required"`
	SMClient   SecretsGetter `validate:"required"`
	SMKey      string        `validate:"required"`
	Backoff    backoff.BackOff
}

// TokenFetcher obtains OAuth access tokens with the JWT bearer flow. Salesforce
// accepts these tokens as SOAP session ids.
type TokenFetcher struct {
	httpClient HttpClient
	cfg        tokenFetcherCfg
	backoff    backoff.BackOff
}

type tokenFetcherCfg struct {
	BaseUrl          string `json:"baseUrl" validate:"required,url"`
	Hostname         string `json:"hostname" validate:"required"`
	Username         string `json:"username" validate:"required"`
	ClientId         string `json:"clientId" validate:"required"`
	ClientSecret     string `json:"clientSecret"`
	PrivateKeyBase64 string `json:"privateKeyBase64" validate:"required,base64"`
	privateKey       []byte
}

func NewTokenFetcher(p TokenParams) (*TokenFetcher, error) {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		return nil, err
	}

	cfg := tokenFetcherCfg{}
	if err := readSecret(context.Background(), p.SMClient, p.SMKey, &cfg); err != nil {
		return nil, err
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid token settings in secrets manager: %w", err)
	}

	var err error
	cfg.privateKey, err = base64.StdEncoding.DecodeString(cfg.PrivateKeyBase64)
	if err != nil {
		return nil, fmt.Errorf("unable to decode private key: %w", err)
	}

	b := p.Backoff
	if b == nil {
		b = backoff.NewExponentialBackOff()
	}

	return &TokenFetcher{
		httpClient: p.HttpClient,
		cfg:        cfg,
		backoff:    b,
	}, nil
}

// BaseUrl is the instance url tokens are valid for; pass it to WithSession.
func (tf TokenFetcher) BaseUrl() string {
	return tf.cfg.BaseUrl
}

func (tf TokenFetcher) Fetch(ctx context.Context) (string, error) {
	return backoff.RetryWithData[string](func() (string, error) {
		assertion, err := tf.assertion()
		if err != nil {
			return "", backoff.Permanent(err)
		}
		tok, err := tf.exchange(ctx, assertion)
		if err != nil {
			return "", err
		}
		if tf.cfg.ClientSecret == "" {
			return tok, nil
		}
		return tok, tf.introspect(ctx, tok)
	}, backoff.WithContext(tf.backoff, ctx))
}

// assertion signs the JWT presented to the token endpoint.
func (tf TokenFetcher) assertion() (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(tf.cfg.privateKey)
	if err != nil {
		return "", fmt.Errorf("error parsing private key %w", err)
	}
	j := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.RegisteredClaims{
		Issuer:    tf.cfg.ClientId,
		Subject:   tf.cfg.Username,
		Audience:  jwt.ClaimStrings{tf.cfg.Hostname},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTtl)),
		ID:        uuid.New().String(),
	})
	tok, err := j.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("error generating salesforce assertion %w", err)
	}
	return tok, nil
}

type tokenResponse struct {
	Token string `json:"access_token"`
}

func (tf TokenFetcher) exchange(ctx context.Context, assertion string) (string, error) {
	data := url.Values{}
	data.Add("assertion", assertion)
	data.Add("grant_type", "urn:ietf:params:oauth:grant-type:jwt-bearer")

	resBody, err := tf.postForm(ctx, "/services/oauth2/token", data)
	if err != nil {
		return "", err
	}
	var res tokenResponse
	if err = json.Unmarshal(resBody, &res); err != nil {
		return "", err
	}
	if res.Token == "" {
		return "", fmt.Errorf("salesforce token response has no access token")
	}
	return res.Token, nil
}

type introspectResponse struct {
	Active bool `json:"active"`
}

// introspect checks the token is active before it is handed out.
func (tf TokenFetcher) introspect(ctx context.Context, token string) error {
	data := url.Values{}
	data.Add("token", token)
	data.Add("token_type_hint", "access_token")
	data.Add("client_id", tf.cfg.ClientId)
	data.Add("client_secret", tf.cfg.ClientSecret)

	resBody, err := tf.postForm(ctx, "/services/oauth2/introspect", data)
	if err != nil {
		return err
	}
	var res introspectResponse
	if err = json.Unmarshal(resBody, &res); err != nil {
		return err
	}
	if !res.Active {
		return backoff.Permanent(fmt.Errorf("salesforce token is not active"))
	}
	return nil
}

func (tf TokenFetcher) postForm(ctx context.Context, path string, data url.Values) ([]byte, error) {
	uri, err := url.ParseRequestURI(tf.cfg.BaseUrl + path)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	uri.RawQuery = data.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri.String(), nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header = http.Header{
		"Content-Type": {"application/x-www-form-urlencoded"},
	}

	resp, err := tf.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{StatusCode: resp.StatusCode, Method: path}
	}
	return io.ReadAll(resp.Body)
}

// TokenCache is a SessionSource backed by TokenFetcher.
type TokenCache struct {
	c       *cache.KeylessRecordCache[string]
	baseUrl string
}

// NewTokenCache creates a salesforce session token cache
// using async type of cache.KeylessRecordCache and storing in memory with driver.NewMemoryCache
// with a ~1 hour TTL/refresh rate (slightly less to ensure the token doesn't expire before the cache becomes stale)
func NewTokenCache(p TokenParams) (*TokenCache, error) {
	tf, err := NewTokenFetcher(p)
	if err != nil {
		return nil, err
	}
	return &TokenCache{
		c: cache.NewKeylessRecordCacheAsync[string](
			driver.NewMemoryCache[int, cache.RecordCacheItem[string]](),
			tf,
			tokenCacheTtl,
		),
		baseUrl: tf.BaseUrl(),
	}, nil
}

func NewTokenCacheWithLogger(p TokenParams, log *zap.Logger) (*TokenCache, error) {
	tf, err := NewTokenFetcher(p)
	if err != nil {
		return nil, err
	}
	return &TokenCache{
		c: cache.NewKeylessRecordCacheAsyncWithLogger[string](
			driver.NewMemoryCache[int, cache.RecordCacheItem[string]](),
			tf,
			tokenCacheTtl,
			log.Named("SalesforceTokenCache"),
		),
		baseUrl: tf.BaseUrl(),
	}, nil
}

func (tc TokenCache) Get(ctx context.Context) (string, error) {
	return tc.c.Get(ctx)
}

func (tc TokenCache) BaseUrl() string {
	return tc.baseUrl
}
