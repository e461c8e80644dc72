package diag_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"WonFM/config"
	"WonFM/core/diag"

	"github.com/stretchr/testify/require"
)

type fakeProber struct {
	err error
}

func (f *fakeProber) Probe(ctx context.Context) error { return f.err }

func findResult(t *testing.T, report *diag.Report, name string) diag.CheckResult {
	t.Helper()
	for _, r := range report.Results {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no check named %q in report", name)
	return diag.CheckResult{}
}

func TestEnvChecksSeeCurrentPresence(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	suite := diag.NewSuite(diag.DefaultChecks(&config.Config{}, &fakeProber{err: errors.New("down")}))

	report, err := suite.Run(context.Background())
	require.NoError(t, err)
	result := findResult(t, report, "Environment Variable: JWT_SECRET")
	require.Equal(t, diag.StatusFail, result.Status)
	require.Equal(t, "Missing required environment variable: JWT_SECRET", result.Message)

	// The key set after the suite was built must be visible on the next
	// run; presence is evaluated per run, not captured at construction.
	t.Setenv("JWT_SECRET", "rotated-secret")

	report, err = suite.Run(context.Background())
	require.NoError(t, err)
	result = findResult(t, report, "Environment Variable: JWT_SECRET")
	require.Equal(t, diag.StatusPass, result.Status)
}

func TestOptionalEnvCheckWarns(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "")
	os.Unsetenv("STRIPE_SECRET_KEY")

	suite := diag.NewSuite(diag.DefaultChecks(&config.Config{}, &fakeProber{}))

	report, err := suite.Run(context.Background())
	require.NoError(t, err)
	result := findResult(t, report, "Environment Variable: STRIPE_SECRET_KEY")
	require.Equal(t, diag.StatusWarning, result.Status)
}

func TestVoiceIDCheck(t *testing.T) {
	suite := diag.NewSuite(diag.DefaultChecks(&config.Config{}, &fakeProber{}))
	report, err := suite.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, diag.StatusWarning, findResult(t, report, "Voice ID Configuration").Status)

	suite = diag.NewSuite(diag.DefaultChecks(&config.Config{VoiceID: "voice-123"}, &fakeProber{}))
	report, err = suite.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, diag.StatusPass, findResult(t, report, "Voice ID Configuration").Status)
}
