package pipeline

import (
	"context"
	"testing"

	"github.com/nichestudioai/aibnb-superhost/internal/model"
	"github.com/nichestudioai/aibnb-superhost/pkg/tasks"
	"github.com/stretchr/testify/require"
)

type stubEventRepo struct {
	created []*model.RetrievalEvent
}

func (s *stubEventRepo) Create(event *model.RetrievalEvent) error {
	s.created = append(s.created, event)
	return nil
}

func (s *stubEventRepo) FindRecentByProperty(propertyID uint, limit int) ([]model.RetrievalEvent, error) {
	return nil, nil
}

func TestProcessPersistsEvent(t *testing.T) {
	repo := &stubEventRepo{}
	processor := NewProcessor(repo)

	err := processor.Process(context.Background(), tasks.RetrievalDiagnostic{
		PropertyID:    7,
		Query:         "wifi password",
		CorpusSize:    12,
		SelectedCount: 2,
		ElapsedMs:     3,
		TopScores: []tasks.FAQScore{
			{Question: "wifi password", Score: 0.8},
		},
	})

	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	event := repo.created[0]
	require.Equal(t, uint(7), event.PropertyID)
	require.Equal(t, "wifi password", event.Query)
	require.Equal(t, 12, event.CorpusSize)
	require.Equal(t, 2, event.SelectedCount)
	require.JSONEq(t, `[{"question":"wifi password","score":0.8}]`, event.TopScores)
}
