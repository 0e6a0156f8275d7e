package cronjobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"go-relieflink/estimator"
	"go-relieflink/metrics"
)

const checkTimeout = 30 * time.Second

// ShortageCheck recomputes demand against stock and publishes the result as gauges.
type ShortageCheck struct {
	src estimator.Source
	log *zap.Logger
}

func NewShortageCheck(src estimator.Source, log *zap.Logger) *ShortageCheck {
	return &ShortageCheck{src: src, log: log.Named("cron")}
}

// Run performs one check. It returns the rows that are short.
func (s *ShortageCheck) Run(ctx context.Context) ([]estimator.ItemEstimate, error) {
	snap, err := estimator.Load(ctx, s.src)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("shortage_check").Inc()
		s.log.Error("shortage check failed", zap.Error(err))
		return nil, err
	}

	estimates := estimator.Estimate(snap.Requests, snap.Inventory)
	for _, e := range estimates {
		metrics.ItemDemand.WithLabelValues(string(e.ItemKind)).Set(float64(e.Demand))
		metrics.ItemShortage.WithLabelValues(string(e.ItemKind)).Set(float64(e.Shortage))
	}

	shortages := estimator.Shortages(estimates)
	for _, e := range shortages {
		s.log.Warn("item short",
			zap.String("item", string(e.ItemKind)),
			zap.Int("demand", e.Demand),
			zap.Int("available", e.Available),
			zap.Int("shortage", e.Shortage))
	}
	for _, item := range estimator.LowStock(snap.Inventory) {
		s.log.Info("item below threshold",
			zap.String("item", string(item.ID)),
			zap.Int("quantity", item.Quantity),
			zap.Int("threshold", item.Threshold))
	}

	s.log.Info("shortage check finished",
		zap.Int("requests", len(snap.Requests)),
		zap.Int("items", len(estimates)),
		zap.Int("short", len(shortages)))
	return shortages, nil
}

// InitCronJobs schedules the shortage check and starts the scheduler.
// The caller stops it with Stop on shutdown.
func InitCronJobs(spec string, check *ShortageCheck, log *zap.Logger) (*cron.Cron, error) {
	log.Info("starting cron jobs", zap.String("shortageCron", spec))
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()
		_, _ = check.Run(ctx)
	})
	if err != nil {
		log.Error("error scheduling shortage check", zap.Error(err))
		return nil, err
	}

	c.Start()
	return c, nil
}

