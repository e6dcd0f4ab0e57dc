// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"devscreen-workers/internal/common/config"
	"devscreen-workers/internal/common/logger"
)

// WorkerSpec describes one job worker to open against the broker.
type WorkerSpec struct {
	TaskType       string
	FetchVariables []string
	Config         config.WorkerConfig
	Handler        worker.JobHandler
}

// Worker is an open job subscription.
type Worker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// StartWorker opens the job worker described by spec. It returns nil when
// the worker is disabled in config.
func StartWorker(client zbc.Client, spec WorkerSpec, log logger.Logger) *Worker {
	l := log.With(map[string]interface{}{"taskType": spec.TaskType})
	if !spec.Config.Enabled {
		l.Info("worker disabled", nil)
		return nil
	}

	step := client.NewJobWorker().
		JobType(spec.TaskType).
		Handler(spec.Handler).
		MaxJobsActive(spec.Config.MaxJobsActive).
		Timeout(config.GetDuration(spec.Config.Timeout))
	if len(spec.FetchVariables) > 0 {
		step = step.FetchVariables(spec.FetchVariables...)
	}

	l.Info("worker started", map[string]interface{}{
		"maxJobsActive":  spec.Config.MaxJobsActive,
		"timeout_ms":     spec.Config.Timeout,
		"fetchVariables": spec.FetchVariables,
	})
	return &Worker{worker: step.Open(), logger: l, taskType: spec.TaskType}
}

// Stop closes the subscription and waits up to timeout for in-flight jobs.
func (w *Worker) Stop(timeout time.Duration) {
	if w == nil {
		return
	}
	w.logger.Info("stopping worker", nil)
	w.worker.Close()

	done := make(chan struct{})
	go func() {
		w.worker.AwaitClose()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		w.logger.Warn("worker did not drain before timeout", map[string]interface{}{
			"timeout": timeout.String(),
		})
	}
}
