package merge

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/meditrak/opsdash/internal/clean"
	"github.com/meditrak/opsdash/internal/config"
	"github.com/meditrak/opsdash/internal/model"
	"github.com/meditrak/opsdash/internal/source"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// SheetReader fetches one remote sheet, degrading to an empty table when the
// source is unavailable.
type SheetReader interface {
	ReadOrEmpty(ctx context.Context, spreadsheetID, sheetName string) *source.Table
}

// Run executes the full refresh pipeline: load → clean → merge. Any missing
// required source or structural error aborts the whole run; the caller keeps
// serving previously cached data.
func Run(ctx context.Context, log zerolog.Logger, cfg *config.Config, sheetsClient SheetReader) (*Result, *model.RefreshSummary, error) {
	totalStart := time.Now()
	batchID := uuid.New()
	log = log.With().Str("batch_id", batchID.String()).Logger()

	summary := &model.RefreshSummary{
		BatchID:    batchID.String(),
		SourceRows: make(map[string]int),
	}

	// Phase 1: Load
	log.Info().Str("data_dir", cfg.DataDir).Msg("loading sources")
	loadStart := time.Now()
	tables := make(map[string]*source.Table, len(cfg.Sources))
	for _, name := range cfg.Sources {
		src, ok := model.SourceByName(name)
		if !ok {
			return nil, nil, &PipelineError{Phase: "load", Err: fmt.Errorf("unknown source %q", name)}
		}
		tbl, err := source.Load(cfg.DataDir, src)
		if err != nil {
			return nil, nil, &PipelineError{Phase: "load", Err: err}
		}
		tables[name] = tbl
		summary.SourceRows[name] = tbl.Len()
		log.Info().Str("source", name).Int("rows", tbl.Len()).Msg("source loaded")
	}

	var claimsTable *source.Table
	if sheetsClient != nil && cfg.TPASheet.SpreadsheetID != "" {
		claimsTable = sheetsClient.ReadOrEmpty(ctx, cfg.TPASheet.SpreadsheetID, cfg.TPASheet.SheetName)
		summary.SourceRows["tpa_sheet"] = claimsTable.Len()
		log.Info().Int("rows", claimsTable.Len()).Msg("TPA sheet loaded")
	} else {
		claimsTable = source.NewTable("tpa_sheet", nil)
		log.Info().Msg("TPA sheet not configured, proceeding without claims")
	}
	if sheetsClient != nil && cfg.SchemeSheet.SpreadsheetID != "" {
		schemeTable := sheetsClient.ReadOrEmpty(ctx, cfg.SchemeSheet.SpreadsheetID, cfg.SchemeSheet.SheetName)
		summary.SourceRows["scheme_sheet"] = schemeTable.Len()
		log.Info().Int("rows", schemeTable.Len()).Msg("scheme sheet loaded")
	}
	summary.DurationLoad = time.Since(loadStart)

	// Phase 2: Clean
	log.Info().Msg("cleaning sources")
	cleanStart := time.Now()
	in, err := cleanAll(tables, claimsTable)
	if err != nil {
		return nil, nil, &PipelineError{Phase: "clean", Err: err}
	}
	summary.DurationClean = time.Since(cleanStart)

	// Phase 3: Merge
	log.Info().
		Int("admissions", len(in.Admissions)).
		Int("discharges", len(in.Discharges)).
		Int("charge_lines", len(in.ChargeLines)).
		Msg("merging")
	mergeStart := time.Now()
	result := Merge(log, in)
	summary.DurationMerge = time.Since(mergeStart)

	summary.Admissions = len(result.IP)
	summary.ChargeLines = len(result.IPLines)
	summary.OPVisits = len(result.OP)
	summary.DuplicatesUnmatched = result.DuplicatesDropped
	summary.DurationTotal = time.Since(totalStart)

	log.Info().
		Int("ip_rows", summary.Admissions).
		Int("op_rows", summary.OPVisits).
		Int("duplicates_dropped", summary.DuplicatesUnmatched).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("refresh pipeline complete")

	return result, summary, nil
}

// cleanAll runs every per-source cleaner over the loaded tables. Sources
// excluded from the run come through as empty slices; the merge tolerates
// them as "no data".
func cleanAll(tables map[string]*source.Table, claims *source.Table) (*Inputs, error) {
	in := &Inputs{Expired: map[string]bool{}}
	var err error

	if tbl, ok := tables["admission_list"]; ok {
		if in.Admissions, err = clean.AdmissionList(tbl); err != nil {
			return nil, err
		}
	}
	if tbl, ok := tables["ip_discharge"]; ok {
		if in.Discharges, err = clean.IPDischarge(tbl); err != nil {
			return nil, err
		}
	}
	if tbl, ok := tables["ip_detail"]; ok {
		if in.ChargeLines, err = clean.IPDetail(tbl); err != nil {
			return nil, err
		}
	}
	if tbl, ok := tables["patient_details"]; ok {
		if in.Patients, err = clean.Patients(tbl); err != nil {
			return nil, err
		}
	}
	if tbl, ok := tables["doctor_master"]; ok {
		if in.Doctors, err = clean.Doctors(tbl); err != nil {
			return nil, err
		}
	}
	if tbl, ok := tables["code_master"]; ok {
		if tbl.Len() == 0 {
			return nil, fmt.Errorf("source code_master: reference table is empty")
		}
		if in.ServiceGroups, err = clean.ServiceGroups(tbl); err != nil {
			return nil, err
		}
	}
	if tbl, ok := tables["opd_group_master"]; ok {
		opdGroups, err := clean.ServiceGroups(tbl)
		if err != nil {
			return nil, err
		}
		in.ServiceGroups = append(in.ServiceGroups, opdGroups...)
	}
	if tbl, ok := tables["tpa_mapping"]; ok {
		if in.TPAMap, err = clean.TPAs(tbl); err != nil {
			return nil, err
		}
	}
	if tbl, ok := tables["marketing_agents"]; ok {
		if _, err = clean.Agents(tbl); err != nil {
			return nil, err
		}
	}
	if tbl, ok := tables["expired_patients"]; ok {
		if in.Expired, err = clean.Expired(tbl); err != nil {
			return nil, err
		}
	}
	if tbl, ok := tables["op_discharge"]; ok {
		if in.OPDischarges, err = clean.OPDischarge(tbl); err != nil {
			return nil, err
		}
	}
	if tbl, ok := tables["op_detail"]; ok {
		if in.OPServices, err = clean.OPDetail(tbl); err != nil {
			return nil, err
		}
	}
	if tbl, ok := tables["op_deposit"]; ok {
		if in.Deposits, err = clean.Deposits(tbl); err != nil {
			return nil, err
		}
	}
	if in.Claims, err = clean.TPAClaims(claims); err != nil {
		return nil, err
	}
	return in, nil
}
