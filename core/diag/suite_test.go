package diag_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"WonFM/core/diag"

	"github.com/stretchr/testify/require"
)

func staticCheck(name string, status diag.Status) diag.Check {
	return diag.Check{
		Name: name,
		Run: func(ctx context.Context) diag.CheckResult {
			return diag.CheckResult{Name: name, Status: status, Message: "static"}
		},
	}
}

func TestRunTalliesResults(t *testing.T) {
	t.Parallel()

	suite := diag.NewSuite([]diag.Check{
		staticCheck("a", diag.StatusPass),
		staticCheck("b", diag.StatusPass),
		staticCheck("c", diag.StatusFail),
		staticCheck("d", diag.StatusWarning),
	})

	report, err := suite.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Results, 4)
	require.Equal(t, 2, report.Passed)
	require.Equal(t, 1, report.Failed)
	require.Equal(t, 1, report.Warnings)
	require.Equal(t, len(report.Results), report.Passed+report.Failed+report.Warnings)
	require.Equal(t, 50.0, report.Percent)

	// Results keep check order despite concurrent execution.
	require.Equal(t, "a", report.Results[0].Name)
	require.Equal(t, "d", report.Results[3].Name)
}

func TestRunRecoversPanickingCheck(t *testing.T) {
	t.Parallel()

	suite := diag.NewSuite([]diag.Check{
		staticCheck("ok", diag.StatusPass),
		{
			Name: "broken",
			Run: func(ctx context.Context) diag.CheckResult {
				panic("probe exploded")
			},
		},
	})

	report, err := suite.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.Passed)
	require.Equal(t, 1, report.Failed)
	require.Equal(t, diag.StatusFail, report.Results[1].Status)
	require.Contains(t, report.Results[1].Message, "probe exploded")
}

func TestRunRefusesConcurrentRuns(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{})
	var startOnce sync.Once
	suite := diag.NewSuite([]diag.Check{
		{
			Name: "slow",
			Run: func(ctx context.Context) diag.CheckResult {
				startOnce.Do(func() { close(started) })
				<-release
				return diag.CheckResult{Name: "slow", Status: diag.StatusPass}
			},
		},
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := suite.Run(context.Background())
		require.NoError(t, err)
	}()

	<-started
	_, err := suite.Run(context.Background())
	require.Equal(t, diag.ErrRunInProgress, err)

	close(release)
	wg.Wait()

	// Completed runs can be re-triggered.
	report, err := suite.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.Passed)
	require.NotNil(t, suite.Last())
	require.WithinDuration(t, time.Now(), suite.Last().Timestamp, time.Minute)
}

func TestEmptySuite(t *testing.T) {
	t.Parallel()

	report, err := diag.NewSuite(nil).Run(context.Background())
	require.NoError(t, err)
	require.Empty(t, report.Results)
	require.Zero(t, report.Percent)
}
