package ingest

import (
	"context"
	"path/filepath"
	"time"

	"github.com/medha-kiot/command-center/internal/config"
	"github.com/medha-kiot/command-center/internal/model"
	"github.com/medha-kiot/command-center/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const readConcurrency = 4

// Pipeline runs SpreadsheetReader → ColumnResolver → RowExtractor →
// RecordBuilder → Deduplicator over a set of source files.
type Pipeline struct {
	rules config.Rules
	now   func() time.Time
}

func NewPipeline(rules config.Rules) *Pipeline {
	return &Pipeline{
		rules: rules,
		now:   time.Now,
	}
}

// WithClock overrides the timestamp source for provenance fields.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Run ingests every spreadsheet in dir, in file-name order.
func (p *Pipeline) Run(ctx context.Context, dir string) (*model.IngestReport, []model.TeamRecord, error) {
	paths, err := ListSources(dir, p.rules.Extensions)
	if err != nil {
		return nil, nil, err
	}
	return p.RunFiles(ctx, paths)
}

// readAll loads every workbook concurrently. Results are indexed like paths.
func (p *Pipeline) readAll(ctx context.Context, paths []string) ([]*Sheet, error) {
	l := logger.FromContext(ctx)

	sheets := make([]*Sheet, len(paths))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(readConcurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			l.Info("reading spreadsheet", zap.String("file", filepath.Base(path)))

			sheet, err := ReadSheet(path)
			if err != nil {
				return err
			}
			sheets[i] = sheet
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sheets, nil
}

// RunFiles ingests paths in the given order. The first occurrence of a team
// key wins across all files.
func (p *Pipeline) RunFiles(ctx context.Context, paths []string) (*model.IngestReport, []model.TeamRecord, error) {
	l := logger.FromContext(ctx)

	sheets, err := p.readAll(ctx, paths)
	if err != nil {
		return nil, nil, err
	}

	report := &model.IngestReport{Files: make([]string, 0, len(paths))}
	dedup := NewDeduplicator()

	for n, path := range paths {
		source := filepath.Base(path)
		sheet := sheets[n]
		report.Files = append(report.Files, source)

		columns := ResolveColumns(sheet.Header)
		if _, ok := columns.Index(FieldTeamName); !ok {
			l.Warn("team name column not found, file yields no teams", zap.String("file", source))
		}
		extractor := NewExtractor(columns, Sentinels(p.rules.Sentinels), p.rules.CountryCode)

		for i, row := range sheet.Rows {
			report.RowsRead++
			draft, ok := extractor.Extract(row)
			if !ok {
				report.BlankRows++
				continue
			}

			now := p.now()
			rec := BuildRecord(draft, model.Provenance{
				Source:       source,
				CreatedAt:    now,
				LastModified: now,
			})

			// data rows start on sheet row 2
			if dup, added := dedup.Add(rec, i+2); !added {
				l.Warn("duplicate skipped",
					zap.String("team_name", dup.TeamName),
					zap.String("team_key", dup.TeamKey),
					zap.String("file", dup.Source),
					zap.Int("row", dup.Row),
					zap.String("first_source", dup.FirstSource))
				report.Duplicates = append(report.Duplicates, dup)
			}
		}
	}

	report.UniqueTeams = dedup.Len()

	l.Info("ingestion parsed",
		zap.Int("files", len(report.Files)),
		zap.Int("rows", report.RowsRead),
		zap.Int("blank_rows", report.BlankRows),
		zap.Int("duplicates", len(report.Duplicates)),
		zap.Int("teams", report.UniqueTeams))

	return report, dedup.Records(), nil
}
