package salesforce

import (
	"fmt"
	"go.uber.org/zap"
)

// Environment selects the Salesforce login host.
type Environment string

const (
	Live Environment = "live"
	Test Environment = "test"
)

const (
	// SupportedVersion is the API version this package is built against.
	SupportedVersion = "21.0"
	DefaultVersion   = SupportedVersion
	DefaultEnv       = Live
)

var hosts = map[Environment]string{
	Live: "www.salesforce.com",
	Test: "test.salesforce.com",
}

// URLForEnvironment returns the SOAP endpoint for env and API version, eg.
// https://www.salesforce.com/services/Soap/u/21.0
func URLForEnvironment(env Environment, version string) (string, error) {
	host, ok := hosts[env]
	if !ok {
		return "", &InvalidEnvironmentError{Environment: env}
	}
	return fmt.Sprintf("https://%s/services/Soap/u/%s", host, version), nil
}

// checkVersion warns when version differs from SupportedVersion. The warning
// is advisory only.
func checkVersion(log *zap.Logger, version string) {
	if version == SupportedVersion {
		return
	}
	log.Warn("salesforce api version is not supported, proceeding anyway",
		zap.String("version", version),
		zap.String("supportedVersion", SupportedVersion),
	)
}
