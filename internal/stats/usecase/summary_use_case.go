package usecase

import (
	"context"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/stats/repository"
)

const topSpenderLimit = 3

type StatsRepository interface {
	TotalRevenue(ctx context.Context) (float64, error)
	TotalOrders(ctx context.Context) (int, error)
	AverageOrderValue(ctx context.Context) (float64, error)
	DistinctUserCount(ctx context.Context) (int, error)
	TopSpenders(ctx context.Context, limit int) ([]repository.Spender, error)
}

type Summary struct {
	TotalRevenue      float64
	TotalOrders       int
	AverageOrderValue float64
	DistinctUsers     int
	TopSpenders       []repository.Spender
}

// SummaryUseCase assembles the admin statistics dashboard from the order
// aggregate. Figures come from independent queries, so a summary read
// concurrent with a transition may be momentarily inconsistent between
// figures; each figure is individually correct.
type SummaryUseCase struct {
	repo StatsRepository
}

func NewSummaryUseCase(repo StatsRepository) *SummaryUseCase {
	return &SummaryUseCase{repo: repo}
}

func (uc *SummaryUseCase) GetSummary(ctx context.Context) (*Summary, error) {
	revenue, err := uc.repo.TotalRevenue(ctx)
	if err != nil {
		return nil, err
	}
	totalOrders, err := uc.repo.TotalOrders(ctx)
	if err != nil {
		return nil, err
	}
	avg, err := uc.repo.AverageOrderValue(ctx)
	if err != nil {
		return nil, err
	}
	users, err := uc.repo.DistinctUserCount(ctx)
	if err != nil {
		return nil, err
	}
	topSpenders, err := uc.repo.TopSpenders(ctx, topSpenderLimit)
	if err != nil {
		return nil, err
	}

	return &Summary{
		TotalRevenue:      revenue,
		TotalOrders:       totalOrders,
		AverageOrderValue: avg,
		DistinctUsers:     users,
		TopSpenders:       topSpenders,
	}, nil
}
