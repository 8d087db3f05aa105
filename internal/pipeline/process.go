package pipeline

import (
	"fmt"
	"sort"
	"time"

	"codexnova/internal"
	"codexnova/internal/config"
	"codexnova/internal/storage"
)

// ImportService drives one full run against the embedded store:
// Idle -> Validating -> Validated -> Importing -> Imported -> Verifying ->
// Verified, with a terminal failure state at each phase. No state is
// re-entered; a new run starts from scratch.
type ImportService struct {
	db        *storage.DB
	cfg       config.Config
	validator *Validator
	extractor *Extractor
}

func NewImportService(db *storage.DB, cfg config.Config, validator *Validator, extractor *Extractor) *ImportService {
	return &ImportService{db: db, cfg: cfg, validator: validator, extractor: extractor}
}

type RunResult struct {
	Status          internal.RunStatus
	Validation      internal.ValidationResult
	Alignment       internal.AlignmentResult
	Extract         internal.ExtractResult
	Counts          internal.ImportCounts
	StatementErrors []string
}

// Run validates, imports and verifies in order. A validation failure is a
// refused import, not an error; phase-fatal conditions (store unavailable,
// reconciliation mismatch) come back as errors alongside the terminal
// status.
func (s *ImportService) Run(sheet internal.ParsedSheet) (RunResult, error) {
	result := RunResult{Status: internal.RunValidating, StatementErrors: []string{}}

	result.Validation = s.validator.Validate(sheet)
	result.Alignment = s.validator.CheckAlignment(sheet)
	if !result.Validation.IsValid || len(result.Alignment.Issues) > 0 {
		result.Status = internal.RunValidationFailed
		s.recordRun(result)
		return result, nil
	}
	result.Status = internal.RunValidated

	result.Status = internal.RunImporting
	result.Extract = s.extractor.Extract(sheet)
	if err := s.importAll(&result); err != nil {
		result.Status = internal.RunImportFailed
		s.recordRun(result)
		return result, err
	}
	result.Status = internal.RunImported

	result.Status = internal.RunVerifying
	if err := s.verify(&result); err != nil {
		result.Status = internal.RunVerificationFailed
		s.recordRun(result)
		return result, err
	}
	result.Status = internal.RunVerified

	s.recordRun(result)
	_ = s.db.SetMetadata("import.last_run", time.Now().UTC().Format(time.RFC3339))
	return result, nil
}

// importAll replays the model into the store: backup, clear, then inserts
// parent-first. A failed statement is collected and the rest continue; the
// reconciliation pass decides whether the run survives.
func (s *ImportService) importAll(result *RunResult) error {
	if !s.cfg.ImportSkipBackup {
		if err := s.db.BackupTables(time.Now().UnixMilli()); err != nil {
			return err
		}
	}
	if err := s.db.ClearAll(); err != nil {
		return err
	}

	for _, brand := range result.Extract.Brands {
		if err := s.db.InsertBrand(brand); err != nil {
			result.Counts.Failed++
			result.StatementErrors = append(result.StatementErrors, fmt.Sprintf("brand %s: %v", brand.Code, err))
			continue
		}
		result.Counts.Brands++
	}

	for _, product := range result.Extract.Products {
		if err := s.db.InsertProduct(product); err != nil {
			result.Counts.Failed++
			result.StatementErrors = append(result.StatementErrors, fmt.Sprintf("product %s/%s: %v", product.BrandCode, product.Name, err))
			continue
		}
		result.Counts.Products++
	}

	for _, plan := range result.Extract.RatePlans {
		if err := s.db.InsertRatePlan(plan); err != nil {
			result.Counts.Failed++
			result.StatementErrors = append(result.StatementErrors, fmt.Sprintf("rate plan %s/%s/%s: %v", plan.BrandCode, plan.ProductName, plan.RateCode, err))
			continue
		}
		result.Counts.RatePlans++
	}

	return nil
}

// verify compares what was written against what validation predicted. Any
// gap, total or per-brand, fails the whole run.
func (s *ImportService) verify(result *RunResult) error {
	expected := result.Validation.Stats.TotalRatePlans
	if result.Counts.RatePlans != expected {
		return fmt.Errorf("rate plan count mismatch: expected %d, imported %d", expected, result.Counts.RatePlans)
	}

	actualByBrand, err := s.db.RatePlanCountsByBrand()
	if err != nil {
		return err
	}

	var mismatches []string
	for brand, expectedCount := range result.Validation.Stats.RatePlansByBrand {
		if actualByBrand[brand] != expectedCount {
			mismatches = append(mismatches,
				fmt.Sprintf("brand %s: expected %d rate plans, stored %d", brand, expectedCount, actualByBrand[brand]))
		}
	}
	for brand := range actualByBrand {
		if _, ok := result.Validation.Stats.RatePlansByBrand[brand]; !ok {
			mismatches = append(mismatches,
				fmt.Sprintf("brand %s: stored %d rate plans, expected none", brand, actualByBrand[brand]))
		}
	}

	if len(mismatches) > 0 {
		sort.Strings(mismatches)
		return fmt.Errorf("per-brand reconciliation failed (%d brands): %s", len(mismatches), mismatches[0])
	}
	return nil
}

func (s *ImportService) recordRun(result RunResult) {
	_ = s.db.InsertRun(result.Status, result.Counts, result.Validation.Stats)
}
