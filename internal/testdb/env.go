package testdb

import "os"

// ciDatabaseURLEnv is the conventional database variable of CI services.
// It is only honoured when running in CI, so a developer's DATABASE_URL is
// never truncated by a local test run.
const ciDatabaseURLEnv = "DATABASE_URL"

// ciEnvVars are set by the common CI providers.
var ciEnvVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// IsCI reports whether the tests run under a CI provider.
func IsCI() bool {
	for _, name := range ciEnvVars {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// databaseURL returns the PostgreSQL URL tests should use, or "" for SQLite.
func databaseURL() string {
	if url := os.Getenv(TestDatabaseURLEnv); url != "" {
		return url
	}
	if IsCI() {
		return os.Getenv(ciDatabaseURLEnv)
	}
	return ""
}
