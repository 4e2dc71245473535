package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/edukasiku/ms-go-premium/app/factory"
)

const deliveryTimeout = 30 * time.Second

// AsyncDispatcher hands notices to a worker goroutine over a buffered channel
// so that notification latency or failure cannot slow down or fail webhook
// processing. When the queue is full the notice is dropped and logged.
type AsyncDispatcher struct {
	notifier Notifier
	queue    chan UpgradeNotice
	logger   logrus.FieldLogger

	stopOnce sync.Once
	done     chan struct{}
}

func NewAsyncDispatcher(notifier Notifier, queueSize int) *AsyncDispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &AsyncDispatcher{
		notifier: notifier,
		queue:    make(chan UpgradeNotice, queueSize),
		logger:   factory.NewModuleLogger("notifier-dispatcher"),
		done:     make(chan struct{}),
	}
}

// Start launches the delivery worker. Call once.
func (d *AsyncDispatcher) Start() {
	go d.run()
}

// Dispatch enqueues a notice without blocking the caller.
func (d *AsyncDispatcher) Dispatch(notice UpgradeNotice) {
	select {
	case d.queue <- notice:
	default:
		d.logger.WithField("user_id", notice.UserID).Warn("notification queue full, dropping upgrade notice")
	}
}

// Stop closes the queue and waits for queued notices to drain.
func (d *AsyncDispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.queue)
	})
	<-d.done
}

func (d *AsyncDispatcher) run() {
	defer close(d.done)
	for notice := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		if err := d.notifier.NotifyUpgrade(ctx, notice); err != nil {
			d.logger.WithError(err).WithField("user_id", notice.UserID).Warn("upgrade notification failed")
		}
		cancel()
	}
}
