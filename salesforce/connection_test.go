package salesforce

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"testing"
)

const (
	testUser      = "user@example.com"
	testPassToken = "passwordTOKEN"
)

type RemoteBindingMock struct {
	mock.Mock
}

func (m *RemoteBindingMock) Login(ctx context.Context, username, password string) error {
	return m.Called(ctx, username, password).Error(0)
}

func (m *RemoteBindingMock) CallRemote(ctx context.Context, method string, params Params) (Response, error) {
	args := m.Called(ctx, method, params)
	r, _ := args.Get(0).(Response)
	return r, args.Error(1)
}

func newRemoteBindingMock() *RemoteBindingMock {
	m := new(RemoteBindingMock)
	m.On("Login", mock.Anything, testUser, testPassToken).Return(nil)
	return m
}

func newTestConnection(t *testing.T, b RemoteBinding, opts ...Option) *Connection {
	t.Helper()
	opts = append([]Option{WithBinding(b), WithLogger(zap.NewNop())}, opts...)
	c, err := NewConnection(context.Background(), testUser, testPassToken, opts...)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return c
}

func TestNewConnection(t *testing.T) {
	t.Run("logs in through the binding", func(t *testing.T) {
		b := newRemoteBindingMock()
		c := newTestConnection(t, b)

		b.AssertCalled(t, "Login", mock.Anything, testUser, testPassToken)
		assert.Same(t, b, c.Binding())
	})

	t.Run("defaults to live environment and version 21.0", func(t *testing.T) {
		c := newTestConnection(t, newRemoteBindingMock())

		assert.Equal(t, "https://www.salesforce.com/services/Soap/u/21.0", c.URL())
		assert.Equal(t, Live, c.Environment())
		assert.Equal(t, "21.0", c.Version())
		assert.True(t, c.WrapResults())
	})

	t.Run("uses requested environment and version", func(t *testing.T) {
		c := newTestConnection(t, newRemoteBindingMock(), WithEnvironment(Test), WithVersion("20.0"))

		assert.Equal(t, "https://test.salesforce.com/services/Soap/u/20.0", c.URL())
	})

	t.Run("wrap results disabled", func(t *testing.T) {
		c := newTestConnection(t, newRemoteBindingMock(), WithWrapResults(false))

		assert.False(t, c.WrapResults())
	})

	t.Run("invalid environment  error returned before login", func(t *testing.T) {
		b := new(RemoteBindingMock)
		_, err := NewConnection(context.Background(), testUser, testPassToken,
			WithBinding(b), WithLogger(zap.NewNop()), WithEnvironment("fakeish"))

		errType := &InvalidEnvironmentError{}
		assert.ErrorAs(t, err, &errType)
		assert.Equal(t, Environment("fakeish"), errType.Environment)
		b.AssertNumberOfCalls(t, "Login", 0)
	})

	t.Run("login fails  error returned", func(t *testing.T) {
		b := new(RemoteBindingMock)
		fault := &FaultError{Code: "sf:INVALID_LOGIN", Message: "INVALID_LOGIN"}
		b.On("Login", mock.Anything, testUser, testPassToken).Return(fault)

		c, err := NewConnection(context.Background(), testUser, testPassToken, WithBinding(b), WithLogger(zap.NewNop()))

		assert.Nil(t, c)
		assert.ErrorIs(t, err, fault)
	})
}

func TestNewConnection_VersionWarning(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		warnings int
	}{
		{name: "default version  no warning", warnings: 0},
		{name: "supported version  no warning", opts: []Option{WithVersion("21.0")}, warnings: 0},
		{name: "unsupported version  exactly one warning", opts: []Option{WithVersion("10.7")}, warnings: 1},
		{name: "unsupported version in test  exactly one warning", opts: []Option{WithVersion("20.0"), WithEnvironment(Test)}, warnings: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			b := newRemoteBindingMock()
			opts := append([]Option{WithBinding(b), WithLogger(zap.New(core))}, tt.opts...)

			c, err := NewConnection(context.Background(), testUser, testPassToken, opts...)

			assert.NoError(t, err)
			assert.NotNil(t, c)
			assert.Equal(t, tt.warnings, logs.Len())
		})
	}
}

func TestConnection_MakeApiCall(t *testing.T) {
	params := Params{{Key: "ids", Value: "id"}}
	ctx := context.Background()

	t.Run("fault  FaultError returned and no value", func(t *testing.T) {
		b := newRemoteBindingMock()
		b.On("CallRemote", mock.Anything, "delete", params).Return(Response{"Fault": map[string]any{
			"faultcode":   "sf:INVALID_ID_FIELD",
			"faultstring": "invalid id",
		}}, nil)
		c := newTestConnection(t, b)

		got, err := c.MakeApiCall(ctx, "delete", params)

		assert.Nil(t, got)
		errType := &FaultError{}
		if assert.ErrorAs(t, err, &errType) {
			assert.Equal(t, "sf:INVALID_ID_FIELD", errType.Code)
			assert.Equal(t, "invalid id", errType.Message)
		}
		assert.True(t, IsFault(err))
		b.AssertNumberOfCalls(t, "CallRemote", 1)
	})

	t.Run("scalar result  wrapped by default", func(t *testing.T) {
		b := newRemoteBindingMock()
		result := map[string]any{"id": "id", "success": "true"}
		b.On("CallRemote", mock.Anything, "delete", params).
			Return(Response{"deleteResponse": map[string]any{"result": result}}, nil)
		c := newTestConnection(t, b)

		got, err := c.MakeApiCall(ctx, "delete", params)

		assert.NoError(t, err)
		assert.Equal(t, []any{result}, got)
	})

	t.Run("scalar result  raw when wrapping disabled", func(t *testing.T) {
		b := newRemoteBindingMock()
		result := map[string]any{"id": "id", "success": "true"}
		b.On("CallRemote", mock.Anything, "delete", params).
			Return(Response{"deleteResponse": map[string]any{"result": result}}, nil)
		c := newTestConnection(t, b, WithWrapResults(false))

		got, err := c.MakeApiCall(ctx, "delete", params)

		assert.NoError(t, err)
		assert.Equal(t, result, got)
	})

	t.Run("collection result  untouched", func(t *testing.T) {
		b := newRemoteBindingMock()
		result := []any{"a", "b"}
		b.On("CallRemote", mock.Anything, "delete", params).
			Return(Response{"deleteResponse": map[string]any{"result": result}}, nil)
		c := newTestConnection(t, b)

		got, err := c.MakeApiCall(ctx, "delete", params)

		assert.NoError(t, err)
		assert.Equal(t, result, got)
	})

	t.Run("reconfigured wrapping applies to later calls", func(t *testing.T) {
		b := newRemoteBindingMock()
		b.On("CallRemote", mock.Anything, "delete", params).
			Return(Response{"deleteResponse": map[string]any{"result": "ok"}}, nil)
		c := newTestConnection(t, b)

		c.SetWrapResults(false)
		got, err := c.MakeApiCall(ctx, "delete", params)

		assert.NoError(t, err)
		assert.Equal(t, "ok", got)
	})

	t.Run("binding error  returned unchanged", func(t *testing.T) {
		b := newRemoteBindingMock()
		transportErr := errors.New("connection reset")
		b.On("CallRemote", mock.Anything, "delete", params).Return(nil, transportErr)
		c := newTestConnection(t, b)

		got, err := c.MakeApiCall(ctx, "delete", params)

		assert.Nil(t, got)
		assert.Same(t, transportErr, err)
	})
}
