package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/run"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
)

const actionBatchSize = 500

// GormRunRepository stores runs, phase summaries and action logs
type GormRunRepository struct {
	db *gorm.DB
}

// NewGormRunRepository creates a new run repository
func NewGormRunRepository(db *gorm.DB) *GormRunRepository {
	return &GormRunRepository{db: db}
}

// Save upserts the run and replaces its phase results and action log
func (r *GormRunRepository) Save(ctx context.Context, rec *run.Run) error {
	model, err := runToModel(rec)
	if err != nil {
		return err
	}
	phases := model.Phases
	model.Phases = nil

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		if err := tx.Where("run_id = ?", model.ID).Delete(&PhaseResultModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("run_id = ?", model.ID).Delete(&ActionLogModel{}).Error; err != nil {
			return err
		}
		if len(phases) > 0 {
			if err := tx.Create(&phases).Error; err != nil {
				return fmt.Errorf("failed to save phase results: %w", err)
			}
		}
		actions := actionsToModels(model.ID, rec.Actions)
		if len(actions) > 0 {
			if err := tx.CreateInBatches(actions, actionBatchSize).Error; err != nil {
				return fmt.Errorf("failed to save action log: %w", err)
			}
		}
		return nil
	})
}

// FindByID loads a run with its phase results but without the action log
func (r *GormRunRepository) FindByID(ctx context.Context, id run.RunID) (*run.Run, error) {
	var model ProjectRunModel
	err := r.db.WithContext(ctx).
		Preload("Phases", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ?", id.String()).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.NewDomainError(fmt.Sprintf("run %s not found", id))
	}
	if err != nil {
		return nil, err
	}
	return modelToRun(&model)
}

// List returns runs newest first
func (r *GormRunRepository) List(ctx context.Context, filter run.ListFilter) ([]*run.Run, error) {
	query := r.db.WithContext(ctx).
		Preload("Phases", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("started_at DESC")
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Name != "" {
		query = query.Where("name LIKE ?", filter.Name+"%")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var models []ProjectRunModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*run.Run, 0, len(models))
	for i := range models {
		rec, err := modelToRun(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Actions returns the action log of a run in log order
func (r *GormRunRepository) Actions(ctx context.Context, id run.RunID) ([]simulation.Action, error) {
	var models []ActionLogModel
	if err := r.db.WithContext(ctx).Where("run_id = ?", id.String()).Order("seq ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]simulation.Action, len(models))
	for i, m := range models {
		out[i] = simulation.Action{
			Agent:    m.Agent,
			Action:   m.Action,
			Start:    m.Start,
			Duration: m.Duration,
			Cost:     m.Cost,
			Level:    simulation.Level(m.Level),
			Phase:    m.Phase,
			Location: m.Location,
		}
	}
	return out, nil
}

func runToModel(rec *run.Run) (*ProjectRunModel, error) {
	cfg, err := json.Marshal(rec.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to encode run config: %w", err)
	}
	outputs, err := json.Marshal(rec.Outputs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode run outputs: %w", err)
	}

	model := &ProjectRunModel{
		ID:               rec.ID.String(),
		Name:             rec.Name,
		Status:           string(rec.Status),
		Config:           string(cfg),
		Outputs:          string(outputs),
		Error:            rec.Error,
		StartedAt:        rec.StartedAt,
		FinishedAt:       rec.FinishedAt,
		TotalCapex:       rec.TotalCapex,
		BOSCapex:         rec.BOSCapex,
		InstallationTime: rec.InstallationTime,
		ProjectTime:      rec.ProjectTime,
		NPV:              rec.NPV,
	}
	for i, p := range rec.Phases {
		model.Phases = append(model.Phases, PhaseResultModel{
			RunID:            model.ID,
			Position:         i,
			Name:             p.Name,
			Kind:             string(p.Kind),
			Category:         p.Category,
			Start:            p.Start,
			Duration:         p.Duration,
			SystemCost:       p.SystemCost,
			InstallationCost: p.InstallationCost,
			Error:            p.Error,
		})
	}
	return model, nil
}

func modelToRun(model *ProjectRunModel) (*run.Run, error) {
	id, err := run.ParseRunID(model.ID)
	if err != nil {
		return nil, err
	}
	var cfg, outputs config.Value
	if model.Config != "" {
		if err := json.Unmarshal([]byte(model.Config), &cfg); err != nil {
			return nil, fmt.Errorf("failed to decode run config: %w", err)
		}
	}
	if model.Outputs != "" {
		if err := json.Unmarshal([]byte(model.Outputs), &outputs); err != nil {
			return nil, fmt.Errorf("failed to decode run outputs: %w", err)
		}
	}

	rec := &run.Run{
		ID:               id,
		Name:             model.Name,
		Status:           run.Status(model.Status),
		Config:           cfg,
		Outputs:          outputs,
		Error:            model.Error,
		StartedAt:        model.StartedAt,
		FinishedAt:       model.FinishedAt,
		TotalCapex:       model.TotalCapex,
		BOSCapex:         model.BOSCapex,
		InstallationTime: model.InstallationTime,
		ProjectTime:      model.ProjectTime,
		NPV:              model.NPV,
	}
	for _, p := range model.Phases {
		rec.Phases = append(rec.Phases, run.PhaseResult{
			Name:             p.Name,
			Kind:             phase.Kind(p.Kind),
			Category:         p.Category,
			Start:            p.Start,
			Duration:         p.Duration,
			SystemCost:       p.SystemCost,
			InstallationCost: p.InstallationCost,
			Error:            p.Error,
		})
	}
	return rec, nil
}

func actionsToModels(runID string, actions []simulation.Action) []ActionLogModel {
	out := make([]ActionLogModel, len(actions))
	for i, a := range actions {
		out[i] = ActionLogModel{
			RunID:    runID,
			Seq:      i,
			Phase:    a.Phase,
			Agent:    a.Agent,
			Action:   a.Action,
			Start:    a.Start,
			Duration: a.Duration,
			Cost:     a.Cost,
			Level:    string(a.Level),
			Location: a.Location,
		}
	}
	return out
}
