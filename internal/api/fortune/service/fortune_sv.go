package fortuneService

import (
	"ProjectPalm/internal/api/fortune"
	"ProjectPalm/pkg/gemini"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// GenerateFortune runs one palm reading: persona prompt selection, the Gemini
// call with its model-fallback policy, and the tolerant parse of whatever the
// model sent back.
func (s *fortuneService) GenerateFortune(ctx context.Context, imageData []byte, mimeType, masterType, language string) (*fortune.Reading, error) {
	prompt := promptForMaster(masterType)
	if language != "" && language != "vi" {
		prompt += fmt.Sprintf("\nTrả lời bằng ngôn ngữ có mã: %s.", language)
	}

	res, err := s.gemini.GenerateFromImage(ctx, prompt, mimeType, imageData)
	if err != nil {
		if errors.Is(err, gemini.ErrOverloaded) {
			return nil, fortune.ErrModelOverloaded
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"model":       res.Model,
		"master_type": masterType,
		"raw_length":  len(res.Text),
	}).Debug("Generated raw fortune text")

	text := parseFortuneText(res.Text)

	s.archiveImage(imageData, mimeType)

	return &fortune.Reading{Fortune: text}, nil
}

// archiveImage keeps a copy of the palm photo in S3. Best effort: a failed
// upload is logged and the reading proceeds.
func (s *fortuneService) archiveImage(imageData []byte, mimeType string) {
	if s.s3 == nil {
		return
	}

	location, err := s.s3.UploadImage(imageData, mimeType)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("Failed to archive palm image")
		return
	}

	s.log.WithFields(logrus.Fields{
		"location": location,
	}).Debug("Archived palm image")
}
