package usageRepository

import (
	"ProjectPalm/pkg/redis"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// usageCountKey is the single Redis key behind the reading counter.
const usageCountKey = "palm:usage_count"

type IUsageRepository interface {
	GetCount(ctx context.Context) (int64, error)
	IncrementCount(ctx context.Context) (int64, error)
}

type usageRepository struct {
	log     *logrus.Logger
	counter redis.ICounter
}

func New(log *logrus.Logger, counter redis.ICounter) IUsageRepository {
	return &usageRepository{
		log:     log,
		counter: counter,
	}
}
