package app

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/voltshop/storefront/internal/catalog"
	"github.com/voltshop/storefront/internal/domain"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, err := time.LoadLocation(a.appConfig.System.Location)
	if err != nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	// Derived category counts drift when products change outside the API
	// (manual SQL, imports); reconcile daily.
	_, err = a.sched.AddFunc("@daily", func() {
		if err := catalog.RecomputeProductCounts(a.gormDB); err != nil {
			zap.L().Error("category count recompute failed", zap.Error(err))
		}
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.gormDB.
			Where("opt_time < ? ", time.Now().
				Add(-time.Hour*24*365)).Delete(domain.AuditLog{})
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// initBusSubscribers wires catalog change events to the count recompute so
// categories stay close to accurate between daily reconciliations.
func (a *Application) initBusSubscribers() {
	err := a.bus.SubscribeAsync(catalog.TopicCatalogChanged, func() {
		if err := catalog.RecomputeProductCounts(a.gormDB); err != nil {
			zap.L().Error("category count recompute failed", zap.Error(err))
		}
	}, false)
	if err != nil {
		zap.S().Errorf("bus subscribe error %s", err.Error())
	}
}
