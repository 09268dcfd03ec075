// Package feedback scores user corrections against predicted profiles.
package feedback

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/heptuple/internal/domain"
	"github.com/kailas-cloud/heptuple/internal/domain/profile"
	logpkg "github.com/kailas-cloud/heptuple/internal/logger"
	"github.com/kailas-cloud/heptuple/internal/metrics"
)

// idLength is the number of hex characters in a feedback id.
const idLength = 8

// Submission is a user correction of an analysis.
type Submission struct {
	Text      string
	Predicted []int
	Correct   []int
	Notes     string
}

// Receipt acknowledges a submission.
type Receipt struct {
	ID         string
	ErrorScore float64
	At         time.Time
}

// Service scores feedback.
type Service struct {
	now func() time.Time
}

// New creates a feedback service.
func New() *Service {
	return &Service{now: time.Now}
}

// Submit validates s and returns its prediction error in [0,1].
// Lists of different length score 1.
func (svc *Service) Submit(ctx context.Context, s Submission) (Receipt, error) {
	if len(s.Predicted) == 0 || len(s.Correct) == 0 {
		return Receipt{}, fmt.Errorf("%w: predicted and correct profiles are required", domain.ErrInvalidInput)
	}
	for _, list := range [][]int{s.Predicted, s.Correct} {
		for i, v := range list {
			if v < profile.MinScore || v > profile.MaxScore {
				return Receipt{}, fmt.Errorf("%w: score %d at position %d out of range [%d,%d]",
					domain.ErrInvalidInput, v, i, profile.MinScore, profile.MaxScore)
			}
		}
	}

	at := svc.now().UTC()
	r := Receipt{
		ID:         receiptID(s, at),
		ErrorScore: profile.AbsoluteError(s.Predicted, s.Correct),
		At:         at,
	}
	metrics.FeedbackErrorScore.Observe(r.ErrorScore)

	logpkg.FromContext(ctx).Info("Feedback recorded",
		zap.String("feedback_id", r.ID),
		zap.Float64("error_score", r.ErrorScore),
		zap.Bool("has_notes", s.Notes != ""),
	)
	return r, nil
}

func receiptID(s Submission, at time.Time) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%v|%v|%s|%s", s.Text, s.Predicted, s.Correct, s.Notes, at.Format(time.RFC3339Nano))
	return hex.EncodeToString(h.Sum(nil))[:idLength]
}
