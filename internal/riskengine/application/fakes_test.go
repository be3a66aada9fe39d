package application

import (
	"context"

	"github.com/wyfcoding/riskengine/internal/riskengine/domain"
)

type fakeRepository struct {
	SaveFunc              func(ctx context.Context, e *domain.Evaluation) error
	GetByIDFunc           func(ctx context.Context, id uint64) (*domain.Evaluation, error)
	ListByCompanyNameFunc func(ctx context.Context, name string) ([]*domain.Evaluation, error)
	PingFunc              func(ctx context.Context) error

	saved []*domain.Evaluation
}

func (f *fakeRepository) Save(ctx context.Context, e *domain.Evaluation) error {
	if f.SaveFunc != nil {
		if err := f.SaveFunc(ctx, e); err != nil {
			return err
		}
	}
	f.saved = append(f.saved, e)
	if e.ID == 0 {
		e.ID = uint64(len(f.saved))
	}
	return nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id uint64) (*domain.Evaluation, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	for _, e := range f.saved {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) ListByCompanyName(ctx context.Context, name string) ([]*domain.Evaluation, error) {
	if f.ListByCompanyNameFunc != nil {
		return f.ListByCompanyNameFunc(ctx, name)
	}
	var out []*domain.Evaluation
	for _, e := range f.saved {
		if e.CompanyName == name {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepository) Ping(ctx context.Context) error {
	if f.PingFunc != nil {
		return f.PingFunc(ctx)
	}
	return nil
}

type fakePublisher struct {
	PublishFunc func(ctx context.Context, event domain.EvaluationCreatedEvent) error
	events      []domain.EvaluationCreatedEvent
}

func (f *fakePublisher) PublishEvaluationCreated(ctx context.Context, event domain.EvaluationCreatedEvent) error {
	if f.PublishFunc != nil {
		if err := f.PublishFunc(ctx, event); err != nil {
			return err
		}
	}
	f.events = append(f.events, event)
	return nil
}

type panickingScorer struct{}

func (panickingScorer) Score(domain.RiskInput) domain.RiskAssessment {
	panic("division by zero")
}
