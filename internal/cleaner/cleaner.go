// Package cleaner runs the filter and delete phases for one account/region.
package cleaner

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	awslib "volsweep/internal/aws"
	"volsweep/internal/filter"
	"volsweep/internal/logging"
	"volsweep/internal/report"
	"volsweep/internal/retry"
	"volsweep/internal/worker"
)

// Cleaner removes unused volumes in a single account and region. Deletion
// never starts before the filter phase has fully completed.
type Cleaner struct {
	Account  awslib.Account
	Region   string
	Sessions *awslib.SessionProvider
	Filter   *filter.Filter
	Pool     *worker.Pool

	// Confirm is asked before the delete phase; nil means auto-approve
	Confirm func(question string) bool

	removals report.Log
}

// New creates a Cleaner for one account/region pass
func New(account awslib.Account, region string, sessions *awslib.SessionProvider, f *filter.Filter, pool *worker.Pool, confirm func(string) bool) *Cleaner {
	return &Cleaner{
		Account:  account,
		Region:   region,
		Sessions: sessions,
		Filter:   f,
		Pool:     pool,
		Confirm:  confirm,
	}
}

// RemovalLog returns the records of volumes deleted by this cleaner
func (c *Cleaner) RemovalLog() []report.RemovalRecord {
	return c.removals.Records()
}

// Run executes the pass. Rate-limit errors re-run the whole pass under the
// run retry policy; volumes already deleted simply no longer list.
func (c *Cleaner) Run(ctx context.Context) error {
	return retry.Do(ctx, retry.RunPolicy, awslib.IsRateLimited, func() error {
		return c.run(ctx)
	})
}

func (c *Cleaner) run(ctx context.Context) error {
	logging.RegionStart(c.Account.ID, c.Region)

	sess, err := c.Sessions.ForAccount(c.Account, c.Region)
	if err != nil {
		return err
	}

	volumes, err := awslib.ListAvailableVolumes(sess)
	if err != nil {
		return err
	}

	candidates, err := c.filterPhase(ctx, volumes)
	if err != nil {
		return err
	}

	if len(candidates) == 0 {
		logging.Info("No candidate volumes", map[string]interface{}{
			"account_id": c.Account.ID,
			"region":     c.Region,
		})
		return nil
	}

	question := fmt.Sprintf("Do you want to remove %d volumes in account %s region %s?",
		len(candidates), c.Account.ID, c.Region)
	if c.Confirm != nil && !c.Confirm(question) {
		logging.Info("Not doing anything", map[string]interface{}{
			"account_id": c.Account.ID,
			"region":     c.Region,
		})
		return nil
	}

	return c.deletePhase(ctx, candidates)
}

// filterPhase maps the eligibility filter over all volumes with the worker
// pool and returns the surviving candidates. Order is not preserved.
func (c *Cleaner) filterPhase(ctx context.Context, volumes []awslib.Volume) ([]awslib.Volume, error) {
	if len(volumes) == 0 {
		return nil, nil
	}

	bar := progressbar.NewOptions(len(volumes),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(fmt.Sprintf("Filtering %d volumes in %s...", len(volumes), c.Region)),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)

	var (
		mu         sync.Mutex
		candidates []awslib.Volume
	)

	tasks := make([]worker.Task, 0, len(volumes))
	for _, v := range volumes {
		v := v
		tasks = append(tasks, func(ctx context.Context) error {
			defer func() {
				_ = bar.Add(1)
			}()

			ok, err := c.Filter.IsCandidate(v, c.lookupMetrics)
			if err != nil {
				return err
			}
			if ok {
				mu.Lock()
				candidates = append(candidates, v)
				mu.Unlock()
			}
			return nil
		})
	}

	if errs := c.Pool.ExecuteTasks(ctx, tasks); len(errs) > 0 {
		return nil, errs[0]
	}
	return candidates, nil
}

// lookupMetrics fetches the idle-time series on a worker-local session
func (c *Cleaner) lookupMetrics(v awslib.Volume) ([]float64, error) {
	sess, err := c.Sessions.ForAccount(c.Account, c.Region)
	if err != nil {
		return nil, err
	}
	return awslib.GetVolumeIdleMinimums(sess, v.ID, c.Filter.MaxAge, c.Filter.Now())
}

// deletePhase removes the candidates, each delete wrapped in the delete
// retry policy, and appends a removal record per success.
func (c *Cleaner) deletePhase(ctx context.Context, candidates []awslib.Volume) error {
	logging.Info("Removing volumes", map[string]interface{}{
		"account_id":   c.Account.ID,
		"region":       c.Region,
		"volume_count": len(candidates),
	})

	tasks := make([]worker.Task, 0, len(candidates))
	for _, v := range candidates {
		v := v
		tasks = append(tasks, func(ctx context.Context) error {
			return c.removeVolume(ctx, v)
		})
	}

	if errs := c.Pool.ExecuteTasks(ctx, tasks); len(errs) > 0 {
		return errs[0]
	}

	logging.Info("Done", map[string]interface{}{
		"account_id": c.Account.ID,
		"region":     c.Region,
	})
	return nil
}

func (c *Cleaner) removeVolume(ctx context.Context, v awslib.Volume) error {
	// Each worker gets its own session, the underlying client is not assumed
	// to be safe for concurrent delete calls.
	sess, err := c.Sessions.ForAccount(c.Account, c.Region)
	if err != nil {
		return err
	}

	logging.Debug("Removing volume", map[string]interface{}{
		"volume_id":  v.ID,
		"account_id": c.Account.ID,
		"region":     c.Region,
		"size_gib":   v.SizeGiB,
		"created":    v.CreateTime,
	})

	err = retry.Do(ctx, retry.DeletePolicy, awslib.IsRateLimited, func() error {
		return awslib.DeleteVolume(sess, v.ID)
	})
	if err != nil {
		return err
	}

	c.removals.Append(report.RemovalRecord{
		VolumeID:    v.ID,
		VolumeType:  v.Type,
		SizeGiB:     v.SizeGiB,
		CreateTime:  v.CreateTime,
		RemovalTime: time.Now().UTC(),
	})
	return nil
}
