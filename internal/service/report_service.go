package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/residencia-tech/relatorio-api/internal/dto"
	"github.com/residencia-tech/relatorio-api/internal/repository"
)

// Scores at or above this mark a participation as approved. Fixed business
// rule, not configurable.
const passingScore = 6.0

// ReportService runs the report pipeline: fetch, enrich, filter, aggregate.
type ReportService interface {
	Generate(ctx context.Context, filter dto.ReportFilter) (dto.ReportResult, error)
}

type reportService struct {
	repo         repository.ParticipationRepository
	validate     *validator.Validate
	queryTimeout time.Duration
	logger       zerolog.Logger
}

// NewReportService constructs the report service.
func NewReportService(repo repository.ParticipationRepository, validate *validator.Validate, queryTimeout time.Duration, logger zerolog.Logger) ReportService {
	return &reportService{
		repo:         repo,
		validate:     validate,
		queryTimeout: queryTimeout,
		logger:       logger.With().Str("component", "report_service").Logger(),
	}
}

func (s *reportService) Generate(ctx context.Context, filter dto.ReportFilter) (dto.ReportResult, error) {
	tracer := otel.Tracer("github.com/residencia-tech/relatorio-api/internal/service/report")
	ctx, span := tracer.Start(ctx, "report.generate")
	span.SetAttributes(attribute.Int("report.group_id", int(filter.GroupID)))
	defer span.End()

	if filter.Kind == "" {
		filter.Kind = dto.ReportDetailed
	}

	if err := s.validate.Struct(filter); err != nil {
		span.SetStatus(codes.Error, "invalid_filter")
		return dto.ReportResult{}, fmt.Errorf("%w: %v", dto.ErrInvalidFilter, err)
	}

	fetchCtx := ctx
	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}

	raw, err := s.repo.ListForReport(fetchCtx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch_failed")
		s.logger.Error().Err(err).Uint("group_id", filter.GroupID).Msg("failed to fetch participations")
		return dto.ReportResult{}, fmt.Errorf("fetch participations: %w", err)
	}

	enriched := make([]dto.ParticipationRow, 0, len(raw))
	for _, row := range raw {
		enriched = append(enriched, enrichRow(row))
	}

	rows := filterByStatus(enriched, filter.Status)

	span.SetAttributes(
		attribute.Int("report.rows_fetched", len(raw)),
		attribute.Int("report.rows_final", len(rows)),
	)

	return dto.ReportResult{
		Kind:       filter.Kind,
		Rows:       rows,
		Statistics: summarize(rows),
	}, nil
}

// enrichRow attaches the derived status to a fetched row. It returns a new
// value; the fetched record is never mutated.
func enrichRow(row dto.ParticipationRow) dto.ParticipationRow {
	switch {
	case row.Score == nil:
		row.Status = dto.StatusPending
	case *row.Score >= passingScore:
		row.Status = dto.StatusApproved
	default:
		row.Status = dto.StatusFailed
	}
	return row
}

// filterByStatus keeps only rows matching the requested status, preserving
// order. An empty status is the identity transform. The status column does not
// exist in the store, so this cannot be pushed into the query.
func filterByStatus(rows []dto.ParticipationRow, status dto.Status) []dto.ParticipationRow {
	if status == "" {
		return rows
	}

	filtered := make([]dto.ParticipationRow, 0, len(rows))
	for _, row := range rows {
		if row.Status == status {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// summarize computes the report statistics over a final row set. Rows without
// a score are excluded from the mean entirely; pending rows count toward
// neither approved nor failed. No rounding happens here.
func summarize(rows []dto.ParticipationRow) dto.ReportStatistics {
	stats := dto.ReportStatistics{Total: len(rows)}

	scoreSum := 0.0
	scoreCount := 0
	attended := 0
	for _, row := range rows {
		if row.Score != nil {
			scoreSum += *row.Score
			scoreCount++
		}
		if row.Attended {
			attended++
		}
		switch row.Status {
		case dto.StatusApproved:
			stats.ApprovedCount++
		case dto.StatusFailed:
			stats.FailedCount++
		}
	}

	if scoreCount > 0 {
		stats.MeanScore = scoreSum / float64(scoreCount)
	}

	denominator := stats.Total
	if denominator == 0 {
		denominator = 1
	}
	stats.AttendanceRatePercent = float64(attended) / float64(denominator) * 100

	return stats
}
