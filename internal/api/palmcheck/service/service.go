package palmcheckService

import (
	"ProjectPalm/internal/entity"
	websocketPkg "ProjectPalm/pkg/websocket"

	"github.com/sirupsen/logrus"
)

type IPalmCheckService interface {
	ProcessPalmFrame(frame []byte) (*entity.PalmCheckResult, error)
}

type palmCheckService struct {
	log     *logrus.Logger
	tracker websocketPkg.IHandTracker
}

func New(log *logrus.Logger, tracker websocketPkg.IHandTracker) IPalmCheckService {
	return &palmCheckService{
		log:     log,
		tracker: tracker,
	}
}
