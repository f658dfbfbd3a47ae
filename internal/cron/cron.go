package cron

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/caarlos0/env/v6"
	cronv3 "github.com/robfig/cron/v3"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/leaderelection"
	"k8s.io/client-go/tools/leaderelection/resourcelock"

	"github.com/laundryos/washstack/config"
	"github.com/laundryos/washstack/interfaces"
	cron_config "github.com/laundryos/washstack/internal/cron/config"
	"github.com/laundryos/washstack/internal/logger"
	"github.com/laundryos/washstack/internal/tracing"
)

// CONSTANTS
const (
	// GroupWashstack is the group for washstack related jobs
	GroupWashstack = "washstack"

	// LeaseDuration is how long a lease lasts before needing renewal
	LeaseDuration = 15 * time.Second
	// RenewDeadline is how long a leader has to renew its lease
	RenewDeadline = 10 * time.Second
	// RetryPeriod is how long to wait between leadership attempts
	RetryPeriod = 2 * time.Second

	// StuckEventAge is how long a pending row may sit untouched before the
	// sweep considers it orphaned and requeues it.
	StuckEventAge = 5 * time.Minute

	// RecoveryBatchSize caps how many stuck rows one sweep picks up.
	RecoveryBatchSize = 100
)

// LOCK MANAGEMENT
var jobLocks = struct {
	sync.Mutex
	locks map[string]*sync.Mutex
}{
	locks: map[string]*sync.Mutex{
		GroupWashstack: new(sync.Mutex),
	},
}

type CronManager struct {
	cfg       *config.Config
	log       logger.Logger
	cron      *cronv3.Cron
	k8s       kubernetes.Interface
	stopCh    chan struct{}
	jobIDs    map[string]cronv3.EntryID
	eventRepo interfaces.WebhookEventRepository
	queue     interfaces.EventQueue
}

func NewCronManager(
	cfg *config.Config,
	log logger.Logger,
	k8s kubernetes.Interface,
	eventRepo interfaces.WebhookEventRepository,
	queue interfaces.EventQueue,
) *CronManager {
	return &CronManager{
		cfg:       cfg,
		log:       log,
		k8s:       k8s,
		stopCh:    make(chan struct{}),
		jobIDs:    make(map[string]cronv3.EntryID),
		eventRepo: eventRepo,
		queue:     queue,
	}
}

// Start initializes and starts the cron manager with leader election
// If k8s is nil, it will start in local mode without leader election
func (cm *CronManager) Start(podName, namespace string) error {
	if cm.k8s == nil || os.Getenv("LOCAL_DEV") == "true" {
		cm.log.Infof("Starting cron manager in local mode")
		cm.StartCron()
		return nil
	}

	// Create the leader election lock
	lock := &resourcelock.LeaseLock{
		LeaseMeta: metav1.ObjectMeta{
			Name:      "washstack-cron-leader",
			Namespace: namespace,
		},
		Client: cm.k8s.CoordinationV1(),
		LockConfig: resourcelock.ResourceLockConfig{
			Identity: podName,
		},
	}

	// Channel to track leader election errors
	errCh := make(chan error, 1)

	go func() {
		le, err := leaderelection.NewLeaderElector(leaderelection.LeaderElectionConfig{
			Lock:            lock,
			ReleaseOnCancel: true,
			LeaseDuration:   LeaseDuration,
			RenewDeadline:   RenewDeadline,
			RetryPeriod:     RetryPeriod,
			Callbacks: leaderelection.LeaderCallbacks{
				OnStartedLeading: func(ctx context.Context) {
					cm.StartCron()
				},
				OnStoppedLeading: func() {
					cm.log.Infof("Leader lost - stopping crons")
					cm.Stop()
				},
				OnNewLeader: func(identity string) {
					cm.log.Infof("New leader elected: %s", identity)
				},
			},
		})
		if err != nil {
			errCh <- err
			return
		}

		ctx := context.Background()
		le.Run(ctx)
	}()

	// Wait briefly to see if leader election fails immediately
	select {
	case err := <-errCh:
		cm.log.Warnf("Leader election failed, falling back to local mode: %v", err)
		cm.StartCron()
	case <-time.After(5 * time.Second):
		// Leader election seems to be working, continue normally
	}

	return nil
}

// Stop gracefully stops the cron manager
func (cm *CronManager) Stop() {
	if cm.cron != nil {
		cm.log.Infof("Stopping cron manager")
		ctx := cm.cron.Stop()
		// Wait for jobs to finish
		<-ctx.Done()
	}
	close(cm.stopCh)
}

// registerJobs adds all cron jobs to the scheduler
func (cm *CronManager) registerJobs(c *cronv3.Cron) {
	var cronConfig cron_config.Config
	if err := env.Parse(&cronConfig); err != nil {
		cm.log.Fatalf("Failed to parse cron config from environment: %v", err)
	}

	// Register heartbeat job
	if cronConfig.CronScheduleHeartbeat != "" {
		podName := os.Getenv("POD_NAME")
		if podName == "" {
			podName = "local"
		}
		id, err := c.AddFunc(cronConfig.CronScheduleHeartbeat, func() {
			defer tracing.RecoverAndLogToJaeger(cm.log)
			cm.log.Infof("Cron heartbeat from pod: %s", podName)
		})
		if err != nil {
			cm.log.Fatalf("Could not add heartbeat cron job: %v", err)
		}
		cm.jobIDs["heartbeat"] = id
		cm.log.Infof("Registered heartbeat job with schedule: %s", cronConfig.CronScheduleHeartbeat)
	}

	// Stuck pending event recovery sweep
	if cronConfig.CronScheduleEventRecovery != "" {
		id, err := c.AddFunc(cronConfig.CronScheduleEventRecovery, func() {
			defer tracing.RecoverAndLogToJaeger(cm.log)
			jobLocks.locks[GroupWashstack].Lock()
			defer jobLocks.locks[GroupWashstack].Unlock()
			cm.recoverStuckEvents()
		})
		if err != nil {
			cm.log.Fatalf("Could not add event recovery cron job: %v", err)
		}
		cm.jobIDs["event_recovery"] = id
		cm.log.Infof("Registered event recovery job with schedule: %s", cronConfig.CronScheduleEventRecovery)
	}
}

// StartCron initializes and starts the cron scheduler
func (cm *CronManager) StartCron() {
	cm.log.Infof("Starting cron manager")
	cronOptions := []cronv3.Option{
		cronv3.WithSeconds(),
		cronv3.WithChain(
			cronv3.SkipIfStillRunning(cronv3.DefaultLogger), // Skip if still running
			cronv3.Recover(cronv3.DefaultLogger),            // Default recovery as backup
		),
	}
	c := cronv3.New(cronOptions...)
	cm.registerJobs(c)
	c.Start()
	cm.cron = c
}

// recoverStuckEvents requeues pending rows that never reached the worker,
// typically after a crash between persist and hand-off or an inbox overflow.
func (cm *CronManager) recoverStuckEvents() {
	ctx := context.Background()

	span, ctx := tracing.StartTracerSpan(ctx, "CronManager.recoverStuckEvents")
	defer span.Finish()
	tracing.TagComponentCronJob(span)

	cutoff := time.Now().UTC().Add(-StuckEventAge)
	stuck, err := cm.eventRepo.ListPendingOlderThan(ctx, cutoff, RecoveryBatchSize)
	if err != nil {
		tracing.TraceErr(span, err)
		cm.log.Errorf("Failed to list stuck pending events: %v", err)
		return
	}

	if len(stuck) == 0 {
		return
	}

	requeued := 0
	for _, event := range stuck {
		if err := cm.queue.Requeue(ctx, event); err != nil {
			tracing.TraceErr(span, err)
			cm.log.Errorf("Failed to requeue event %s: %v", event.ID, err)
			continue
		}
		requeued++
	}

	span.LogKV("stuck", len(stuck), "requeued", requeued)
	cm.log.Infof("Recovery sweep requeued %d of %d stuck events", requeued, len(stuck))
}
