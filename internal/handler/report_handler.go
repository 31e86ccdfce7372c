package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/residencia-tech/relatorio-api/internal/dto"
	"github.com/residencia-tech/relatorio-api/internal/observability"
	"github.com/residencia-tech/relatorio-api/internal/render"
	"github.com/residencia-tech/relatorio-api/internal/service"
	"github.com/residencia-tech/relatorio-api/internal/utils"
)

// ReportHandler exposes the filter form, the HTML report and the export
// downloads. Every endpoint builds its own filter and runs the same pipeline.
type ReportHandler struct {
	reports service.ReportService
	lookups service.LookupService
	logger  zerolog.Logger
}

// NewReportHandler constructs the handler.
func NewReportHandler(reports service.ReportService, lookups service.LookupService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		lookups: lookups,
		logger:  logger.With().Str("component", "report_handler").Logger(),
	}
}

// FormPage renders the report filter form with its dropdowns populated.
func (h *ReportHandler) FormPage(c *fiber.Ctx) error {
	options, err := h.lookups.Options(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load filter options")
		return c.Status(fiber.StatusInternalServerError).SendString("erro ao carregar filtros")
	}

	var page bytes.Buffer
	if err := render.HTMLForm(&page, options); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to render filter form")
		return c.Status(fiber.StatusInternalServerError).SendString("erro ao carregar filtros")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(page.Bytes())
}

// ReportPage renders the HTML report for the posted filter.
func (h *ReportHandler) ReportPage(c *fiber.Ctx) error {
	filter, err := filterFromRequest(c.FormValue)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("filtro inválido")
	}

	result, err := h.reports.Generate(c.Context(), filter)
	if err != nil {
		return h.failPage(c, err)
	}

	var page bytes.Buffer
	start := time.Now()
	if err := render.HTMLReport(&page, result, filter); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to render html report")
		return c.Status(fiber.StatusInternalServerError).SendString("erro ao gerar relatório")
	}
	observability.RenderDuration().WithLabelValues("html").Observe(time.Since(start).Seconds())
	observability.ReportRows().Observe(float64(len(result.Rows)))

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(page.Bytes())
}

// DownloadExcel streams the filtered report as an XLSX attachment.
func (h *ReportHandler) DownloadExcel(c *fiber.Ctx) error {
	return h.download(c, "excel", render.ExcelContentType, render.ExcelFilename, render.Excel)
}

// DownloadPDF streams the filtered report as a PDF attachment.
func (h *ReportHandler) DownloadPDF(c *fiber.Ctx) error {
	return h.download(c, "pdf", render.PDFContentType, render.PDFFilename, render.PDF)
}

// API returns the canonical report payload as JSON. List-only reports omit the
// statistics block, mirroring the HTML view.
func (h *ReportHandler) API(c *fiber.Ctx) error {
	filter, err := filterFromRequest(c.Query)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid report filter")
	}

	result, err := h.reports.Generate(c.Context(), filter)
	if err != nil {
		if errors.Is(err, dto.ErrInvalidFilter) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid report filter")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to generate report")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to generate report")
	}

	observability.ReportRows().Observe(float64(len(result.Rows)))

	payload := struct {
		Kind       dto.ReportKind         `json:"tipo"`
		Rows       []dto.ParticipationRow `json:"rows"`
		Statistics *dto.ReportStatistics  `json:"statistics,omitempty"`
	}{Kind: result.Kind, Rows: result.Rows}
	if result.Kind == dto.ReportDetailed {
		payload.Statistics = &result.Statistics
	}

	return utils.SendSuccess(c, "report generated", payload)
}

type exportFunc func(ctx context.Context, w io.Writer, rows []dto.ParticipationRow) error

func (h *ReportHandler) download(c *fiber.Ctx, format, contentType, filename string, export exportFunc) error {
	filter, err := filterFromRequest(c.Query)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("filtro inválido")
	}

	result, err := h.reports.Generate(c.Context(), filter)
	if err != nil {
		return h.failPage(c, err)
	}

	var file bytes.Buffer
	start := time.Now()
	if err := export(c.Context(), &file, result.Rows); err != nil {
		// A canceled context means the client went away; the buffered
		// output is simply discarded.
		requestLogger(h.logger, c).Error().Err(err).Str("format", format).Msg("failed to render export")
		return c.Status(fiber.StatusInternalServerError).SendString("erro ao gerar relatório")
	}
	observability.RenderDuration().WithLabelValues(format).Observe(time.Since(start).Seconds())
	observability.ReportRows().Observe(float64(len(result.Rows)))

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=`+filename)
	return c.Send(file.Bytes())
}

func (h *ReportHandler) failPage(c *fiber.Ctx, err error) error {
	if errors.Is(err, dto.ErrInvalidFilter) {
		return c.Status(fiber.StatusBadRequest).SendString("filtro inválido")
	}
	requestLogger(h.logger, c).Error().Err(err).Msg("failed to generate report")
	return c.Status(fiber.StatusInternalServerError).SendString("erro ao gerar relatório")
}

// filterFromRequest builds a report filter from either form values or query
// parameters. Unparseable identifiers surface as an invalid filter.
func filterFromRequest(value func(key string, defaultValue ...string) string) (dto.ReportFilter, error) {
	groupID, err := parseOptionalID(value("turma_id"))
	if err != nil {
		return dto.ReportFilter{}, dto.ErrInvalidFilter
	}
	instructorID, err := parseOptionalID(value("professor_id"))
	if err != nil {
		return dto.ReportFilter{}, dto.ErrInvalidFilter
	}
	activityID, err := parseOptionalID(value("atividade_id"))
	if err != nil {
		return dto.ReportFilter{}, dto.ErrInvalidFilter
	}

	return dto.ReportFilter{
		GroupID:      groupID,
		InstructorID: instructorID,
		ActivityID:   activityID,
		Attendance:   dto.Attendance(strings.TrimSpace(value("presenca"))),
		GradeLetter:  strings.TrimSpace(value("conceito")),
		Status:       dto.Status(strings.TrimSpace(value("status"))),
		Kind:         dto.ReportKind(strings.TrimSpace(value("tipo"))),
	}, nil
}

func parseOptionalID(raw string) (uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}
