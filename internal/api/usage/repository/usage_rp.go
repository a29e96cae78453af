package usageRepository

import (
	"ProjectPalm/internal/api/usage"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (r *usageRepository) GetCount(ctx context.Context) (int64, error) {
	count, err := r.counter.GetCount(ctx, usageCountKey)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"key":   usageCountKey,
			"error": err.Error(),
		}).Error("Failed to read usage count")
		return 0, fmt.Errorf("%w: %v", usage.ErrCounterUnavailable, err)
	}
	return count, nil
}

func (r *usageRepository) IncrementCount(ctx context.Context) (int64, error) {
	count, err := r.counter.IncrementCount(ctx, usageCountKey)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"key":   usageCountKey,
			"error": err.Error(),
		}).Error("Failed to increment usage count")
		return 0, fmt.Errorf("%w: %v", usage.ErrCounterUnavailable, err)
	}

	r.log.WithFields(logrus.Fields{
		"count": count,
	}).Debug("Usage count incremented")

	return count, nil
}
