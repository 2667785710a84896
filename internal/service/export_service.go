package service

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/history"
	"alcyxob/workout-tracker/internal/storage"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Export describes an uploaded history document.
type Export struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
	Sessions  int       `json:"sessions"`
}

type exportDocument struct {
	UserID     string          `json:"userId"`
	ExportedAt time.Time       `json:"exportedAt"`
	Sessions   []exportSession `json:"sessions"`
}

type exportSession struct {
	ID           string              `json:"id"`
	Date         time.Time           `json:"date"`
	ExerciseID   string              `json:"exerciseId"`
	ExerciseName string              `json:"exerciseName"`
	Volume       float64             `json:"volume"`
	Sets         []domain.WorkoutSet `json:"sets"`
}

type ExportService interface {
	ExportHistory(ctx context.Context, userID string, sessions []domain.WorkoutSession, exercises []domain.Exercise) (*Export, error)
}

type exportService struct {
	files  storage.FileStorage
	expiry time.Duration
	now    func() time.Time
}

func NewExportService(files storage.FileStorage) ExportService {
	return &exportService{
		files:  files,
		expiry: storage.DefaultPresignedURLExpiry,
		now:    time.Now,
	}
}

// ExportHistory uploads the sessions as JSON and returns a temporary download link.
func (s *exportService) ExportHistory(ctx context.Context, userID string, sessions []domain.WorkoutSession, exercises []domain.Exercise) (*Export, error) {
	now := s.now().UTC()
	doc := exportDocument{
		UserID:     userID,
		ExportedAt: now,
		Sessions:   make([]exportSession, 0, len(sessions)),
	}
	for _, sess := range sessions {
		doc.Sessions = append(doc.Sessions, exportSession{
			ID:           sess.ID,
			Date:         sess.Date,
			ExerciseID:   sess.ExerciseID,
			ExerciseName: history.ResolveExerciseName(exercises, sess.ExerciseID),
			Volume:       history.SessionVolume(sess),
			Sets:         sess.Sets,
		})
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s.json", userID, uuid.NewString())
	if err := s.files.PutObject(ctx, key, "application/json", body); err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}

	url, err := s.files.GeneratePresignedDownloadURL(ctx, key, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("presign export: %w", err)
	}

	log.WithFields(log.Fields{"userId": userID, "key": key, "sessions": len(sessions)}).Info("History exported")
	return &Export{
		Key:       key,
		URL:       url,
		ExpiresAt: now.Add(s.expiry),
		Sessions:  len(sessions),
	}, nil
}
