package handler_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/residencia-tech/relatorio-api/internal/config"
	"github.com/residencia-tech/relatorio-api/internal/dto"
	"github.com/residencia-tech/relatorio-api/internal/handler"
	"github.com/residencia-tech/relatorio-api/internal/middleware"
	"github.com/residencia-tech/relatorio-api/internal/render"
	"github.com/residencia-tech/relatorio-api/internal/router"
)

type fakeReportService struct {
	rows     []dto.ParticipationRow
	calls    int
	lastFilt dto.ReportFilter
}

func (f *fakeReportService) Generate(ctx context.Context, filter dto.ReportFilter) (dto.ReportResult, error) {
	f.calls++
	f.lastFilt = filter
	if filter.GroupID == 0 {
		return dto.ReportResult{}, dto.ErrInvalidFilter
	}

	kind := filter.Kind
	if kind == "" {
		kind = dto.ReportDetailed
	}

	return dto.ReportResult{
		Kind: kind,
		Rows: f.rows,
		Statistics: dto.ReportStatistics{
			Total:                 len(f.rows),
			MeanScore:             7.25,
			AttendanceRatePercent: 100,
			ApprovedCount:         len(f.rows),
		},
	}, nil
}

type fakeLookupService struct{}

func (f *fakeLookupService) Options(ctx context.Context) (dto.FilterOptions, error) {
	return dto.FilterOptions{
		Groups:      []dto.Option{{ID: 1, Name: "Turma A"}},
		Instructors: []dto.Option{{ID: 1, Name: "Marcos"}},
		Activities:  []dto.Option{{ID: 1, Name: "Projeto"}},
	}, nil
}

func score(v float64) *float64 { return &v }

func setupReportApp(t *testing.T, cfg config.Config) (*fiber.App, *fakeReportService) {
	t.Helper()

	reports := &fakeReportService{
		rows: []dto.ParticipationRow{
			{
				Student:     "Ana Souza",
				Email:       "ana@example.com",
				Group:       "Turma A",
				Activity:    "Projeto",
				Score:       score(8),
				Attended:    true,
				Instructors: "Marcos, Paula",
				Status:      dto.StatusApproved,
			},
		},
	}

	reportHandler := handler.NewReportHandler(reports, &fakeLookupService{}, zerolog.New(io.Discard))

	app := fiber.New()

	var jwtMiddleware fiber.Handler
	if cfg.JWTSecret != "" {
		jwtMiddleware = middleware.JWTProtected(cfg.JWTSecret)
	}

	router.Register(app, cfg, router.Dependencies{
		ReportHandler: reportHandler,
		JWTMiddleware: jwtMiddleware,
	})

	return app, reports
}

func TestFormPageListsOptions(t *testing.T) {
	app, _ := setupReportApp(t, config.Config{AppName: "Test", DownloadLimit: 100})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "Turma A")
	require.Contains(t, string(body), "Marcos")
}

func TestReportPageRendersRowsAndStats(t *testing.T) {
	app, reports := setupReportApp(t, config.Config{AppName: "Test", DownloadLimit: 100})

	form := url.Values{}
	form.Set("turma_id", "1")
	form.Set("tipo", "detalhado")

	req := httptest.NewRequest(http.MethodPost, "/relatorio", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "Ana Souza")
	require.Contains(t, string(body), "Média Notas")
	require.Equal(t, uint(1), reports.lastFilt.GroupID)
	require.Equal(t, dto.ReportDetailed, reports.lastFilt.Kind)
}

func TestReportPageRejectsMalformedGroup(t *testing.T) {
	app, reports := setupReportApp(t, config.Config{AppName: "Test", DownloadLimit: 100})

	form := url.Values{}
	form.Set("turma_id", "not-a-number")

	req := httptest.NewRequest(http.MethodPost, "/relatorio", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Zero(t, reports.calls)
}

func TestDownloadExcel(t *testing.T) {
	app, _ := setupReportApp(t, config.Config{AppName: "Test", DownloadLimit: 100})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/download/excel?turma_id=1", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, render.ExcelContentType, resp.Header.Get(fiber.HeaderContentType))
	require.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "relatorio.xlsx")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Relatório")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, render.Headers(), rows[0])
	require.Equal(t, "Ana Souza", rows[1][0])
}

func TestDownloadPDF(t *testing.T) {
	app, _ := setupReportApp(t, config.Config{AppName: "Test", DownloadLimit: 100})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/download/pdf?turma_id=1", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, render.PDFContentType, resp.Header.Get(fiber.HeaderContentType))
	require.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "relatorio.pdf")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestDownloadRequiresGroup(t *testing.T) {
	app, _ := setupReportApp(t, config.Config{AppName: "Test", DownloadLimit: 100})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/download/excel", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPIReturnsCanonicalPayload(t *testing.T) {
	app, _ := setupReportApp(t, config.Config{AppName: "Test", DownloadLimit: 100})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/relatorio?turma_id=1", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `"aluno":"Ana Souza"`)
	require.Contains(t, string(body), `"statistics"`)
}

func TestAPIOmitsStatisticsForListReports(t *testing.T) {
	app, _ := setupReportApp(t, config.Config{AppName: "Test", DownloadLimit: 100})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/relatorio?turma_id=1&tipo=lista", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NotContains(t, string(body), `"statistics"`)
}

func TestAPIRejectsMissingGroup(t *testing.T) {
	app, _ := setupReportApp(t, config.Config{AppName: "Test", DownloadLimit: 100})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/relatorio", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPIRequiresTokenWhenSecretConfigured(t *testing.T) {
	app, _ := setupReportApp(t, config.Config{AppName: "Test", JWTSecret: "secret", DownloadLimit: 100})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/relatorio?turma_id=1", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/relatorio?turma_id=1", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	app, _ := setupReportApp(t, config.Config{AppName: "Test", AppEnv: "test", DownloadLimit: 100})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `"status":"ok"`)
}
