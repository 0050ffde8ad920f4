package service

import (
	"context"
	"strings"
	"testing"

	"github.com/nichestudioai/aibnb-superhost/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeFAQRepo 是 FAQRepository 的内存实现，支持创建与计数。
type fakeFAQRepo struct {
	faqs    map[uint]*model.FAQ
	count   int64
	created []*model.FAQ
	deleted []uint
}

func newFakeFAQRepo() *fakeFAQRepo {
	return &fakeFAQRepo{faqs: make(map[uint]*model.FAQ)}
}

func (f *fakeFAQRepo) Create(faq *model.FAQ) error {
	faq.ID = uint(len(f.created) + 1)
	f.created = append(f.created, faq)
	f.faqs[faq.ID] = faq
	return nil
}

func (f *fakeFAQRepo) Update(faq *model.FAQ) error {
	f.faqs[faq.ID] = faq
	return nil
}

func (f *fakeFAQRepo) Delete(faqID uint) error {
	f.deleted = append(f.deleted, faqID)
	delete(f.faqs, faqID)
	return nil
}

func (f *fakeFAQRepo) FindByID(faqID uint) (*model.FAQ, error) {
	if faq, ok := f.faqs[faqID]; ok {
		return faq, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeFAQRepo) FindByProperty(propertyID uint) ([]model.FAQ, error) {
	var result []model.FAQ
	for _, faq := range f.faqs {
		if faq.PropertyID == propertyID {
			result = append(result, *faq)
		}
	}
	return result, nil
}

func (f *fakeFAQRepo) CountByProperty(propertyID uint) (int64, error) {
	return f.count, nil
}

func ownedProperty() *stubPropertyRepo {
	return &stubPropertyRepo{property: &model.Property{ID: 1, HostID: 1}}
}

func TestFAQCreate(t *testing.T) {
	repo := newFakeFAQRepo()
	svc := NewFAQService(repo, ownedProperty(), nil)

	faq, err := svc.Create(context.Background(), 1, 1, FAQInput{
		Question: "What time is check-in?",
		Answer:   "Check-in is at 3 PM.",
	})

	require.NoError(t, err)
	require.Equal(t, uint(1), faq.PropertyID)
	require.Len(t, repo.created, 1)
}

func TestFAQCreateRejectsLongQuestion(t *testing.T) {
	svc := NewFAQService(newFakeFAQRepo(), ownedProperty(), nil)

	_, err := svc.Create(context.Background(), 1, 1, FAQInput{
		Question: strings.Repeat("q", maxQuestionLen+1),
		Answer:   "short answer",
	})

	require.ErrorIs(t, err, ErrQuestionTooLong)
}

func TestFAQCreateRejectsLongAnswer(t *testing.T) {
	svc := NewFAQService(newFakeFAQRepo(), ownedProperty(), nil)

	_, err := svc.Create(context.Background(), 1, 1, FAQInput{
		Question: "short question",
		Answer:   strings.Repeat("a", maxAnswerLen+1),
	})

	require.ErrorIs(t, err, ErrAnswerTooLong)
}

func TestFAQCreateEnforcesLimit(t *testing.T) {
	repo := newFakeFAQRepo()
	repo.count = maxFAQsPerProperty
	svc := NewFAQService(repo, ownedProperty(), nil)

	_, err := svc.Create(context.Background(), 1, 1, FAQInput{
		Question: "one more?",
		Answer:   "no",
	})

	require.ErrorIs(t, err, ErrFAQLimitReached)
}

func TestFAQCreateRejectsNonOwner(t *testing.T) {
	propertyRepo := &stubPropertyRepo{property: &model.Property{ID: 1, HostID: 99}}
	svc := NewFAQService(newFakeFAQRepo(), propertyRepo, nil)

	_, err := svc.Create(context.Background(), 1, 1, FAQInput{
		Question: "q", Answer: "a",
	})

	require.ErrorIs(t, err, ErrNotOwner)
}

func TestFAQUpdateAndDelete(t *testing.T) {
	repo := newFakeFAQRepo()
	svc := NewFAQService(repo, ownedProperty(), nil)

	faq, err := svc.Create(context.Background(), 1, 1, FAQInput{Question: "q", Answer: "a"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), 1, faq.ID, FAQInput{Question: "q2", Answer: "a2"})
	require.NoError(t, err)
	require.Equal(t, "q2", updated.Question)
	require.Equal(t, "a2", updated.Answer)

	require.NoError(t, svc.Delete(context.Background(), 1, faq.ID))
	require.Equal(t, []uint{faq.ID}, repo.deleted)
}
