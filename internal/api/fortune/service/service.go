package fortuneService

import (
	"ProjectPalm/internal/api/fortune"
	"ProjectPalm/pkg/gemini"
	"ProjectPalm/pkg/s3"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IFortuneService interface {
	GenerateFortune(ctx context.Context, imageData []byte, mimeType, masterType, language string) (*fortune.Reading, error)
}

type fortuneService struct {
	log    *logrus.Logger
	gemini gemini.IGemini
	s3     s3.ItfS3
}

// NewFortuneService wires the Gemini adapter and an optional S3 archive. A
// nil s3 client disables archiving without disabling readings.
func NewFortuneService(
	log *logrus.Logger,
	gemini gemini.IGemini,
	s3 s3.ItfS3,
) IFortuneService {
	return &fortuneService{
		log:    log,
		gemini: gemini,
		s3:     s3,
	}
}
