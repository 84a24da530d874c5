package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/domain"
	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/model"
	ai "github.com/sahil-skillgenix/CareerNavigatorAI-sub000/pkg/ai"

	"github.com/google/uuid"
)

// AnalysesRepo persists analysis jobs and serves a user's prior results.
type AnalysesRepo interface {
	Save(ctx context.Context, job *domain.AnalysisJob) error
	RecentSummaries(ctx context.Context, userID uuid.UUID, limit int) ([]map[string]interface{}, error)
}

// Processor runs a career analysis end to end: gather input, run the
// four generation stages in order, merge, normalize, validate, persist.
type Processor struct {
	repo     AnalysesRepo
	aiClient *ai.Client
}

func NewProcessor(repo AnalysesRepo, aiClient *ai.Client) *Processor {
	return &Processor{repo: repo, aiClient: aiClient}
}

// Process drives one analysis job. Status transitions and the final
// report (or error) are saved through the repo; the returned error
// mirrors what was stored on the job.
func (p *Processor) Process(ctx context.Context, job *domain.AnalysisJob) error {
	started := time.Now()
	job.Status = domain.StatusProcessing
	job.UpdatedAt = time.Now().UTC()
	if err := p.repo.Save(ctx, job); err != nil {
		slog.Warn("processor: save processing status", "job", job.ID, "error", err)
	}

	report, err := p.run(ctx, job)
	job.UpdatedAt = time.Now().UTC()
	if err != nil {
		job.Status = domain.StatusFailed
		job.Error = err.Error()
		if serr := p.repo.Save(ctx, job); serr != nil {
			slog.Error("processor: save failed status", "job", job.ID, "error", serr)
		}
		slog.Error("processor: analysis failed", "job", job.ID, "error", err)
		return err
	}

	job.Status = domain.StatusCompleted
	job.Error = ""
	job.Report = report
	if err := p.repo.Save(ctx, job); err != nil {
		return fmt.Errorf("processor: save completed analysis: %w", err)
	}
	slog.Info("processor: analysis completed", "job", job.ID, "took", time.Since(started))
	return nil
}

func (p *Processor) run(ctx context.Context, job *domain.AnalysisJob) (map[string]interface{}, error) {
	form := NewProfileFormFromMap(job.Profile)
	if err := form.Validate(); err != nil {
		return nil, err
	}

	payload := p.gatherInput(ctx, job, form)
	doc := map[string]interface{}{}

	// Stage 1: competency mapping. Later stages build on its output, so
	// the mapped skills are fed forward through the payload.
	if err := p.runStage(ctx, "skill_profile", payload, doc,
		p.aiClient.SkillProfile, SkillProfileValidator, SkillProfileEnrich,
		[]string{"executive_summary", "skill_mapping"}); err != nil {
		return nil, err
	}
	p.markStage(job, "skill_profile")
	payload["skill_mapping"] = doc["skill_mapping"]

	// Stage 2: gap analysis against the target role.
	if err := p.runStage(ctx, "gap_analysis", payload, doc,
		p.aiClient.GapAnalysis, GapAnalysisValidator, GapAnalysisEnrich,
		[]string{"skill_gap_analysis"}); err != nil {
		return nil, err
	}
	p.markStage(job, "gap_analysis")
	payload["skill_gap_analysis"] = doc["skill_gap_analysis"]

	// Stage 3: alternative pathways.
	if err := p.runStage(ctx, "career_pathways", payload, doc,
		p.aiClient.CareerPathways, PathwaysValidator, PathwaysEnrich,
		[]string{"career_pathways"}); err != nil {
		return nil, err
	}
	p.markStage(job, "career_pathways")
	payload["career_pathways"] = doc["career_pathways"]

	// Stage 4: development plan and learning resources.
	if err := p.runStage(ctx, "development_plan", payload, doc,
		p.aiClient.DevelopmentPlan, PlanValidator, PlanEnrich,
		[]string{"development_plan", "learning_resources"}); err != nil {
		return nil, err
	}
	p.markStage(job, "development_plan")

	doc["user_name"] = form.Name
	doc["current_role"] = form.CurrentRole
	doc["target_role"] = p.effectiveTargetRole(form, doc)
	doc["generated_at"] = time.Now().UTC().Format(time.RFC3339)
	liftMatchScore(doc)

	normalized := model.NormalizeReport(doc)
	if err := model.ValidateMap(normalized); err != nil {
		return nil, fmt.Errorf("report failed schema validation: %w", err)
	}
	return normalized, nil
}

// runStage executes one generation stage: call the model, merge the
// fragment keys, validate, and on failure let the enricher take a single
// retry with the validator's feedback.
func (p *Processor) runStage(
	ctx context.Context,
	name string,
	payload, doc map[string]interface{},
	call func(context.Context, map[string]interface{}) (map[string]interface{}, error),
	validate func(map[string]interface{}) *StageValidationResult,
	enrich func(context.Context, *ai.Client, map[string]interface{}, map[string]interface{}, *StageValidationResult) error,
	mergeKeys []string,
) error {
	out, err := call(ctx, payload)
	if err != nil {
		return fmt.Errorf("stage %s: %w", name, err)
	}
	for _, key := range mergeKeys {
		if val, ok := out[key]; ok {
			doc[key] = val
		}
	}
	if v := validate(doc); !v.Valid {
		if err := enrich(ctx, p.aiClient, payload, doc, v); err != nil {
			return fmt.Errorf("stage %s: %w", name, err)
		}
	}
	return nil
}

func (p *Processor) markStage(job *domain.AnalysisJob, stage string) {
	if job.Metadata == nil {
		job.Metadata = map[string]interface{}{}
	}
	job.Metadata["stage_"+stage] = time.Now().UTC().Format(time.RFC3339)
}

// gatherInput assembles the payload every stage prompt is built from:
// the normalized form, extracted CV text, and summaries of the user's
// prior analyses so repeat runs stay consistent with earlier advice.
func (p *Processor) gatherInput(ctx context.Context, job *domain.AnalysisJob, form *ProfileForm) map[string]interface{} {
	payload := map[string]interface{}{
		"profile": form.ToMap(),
	}
	if form.CVText != "" {
		payload["cv_text"] = form.CVText
	}
	history, err := p.repo.RecentSummaries(ctx, job.UserID, 3)
	if err != nil {
		slog.Warn("processor: prior analyses unavailable", "user", job.UserID, "error", err)
	} else if len(history) > 0 {
		payload["previous_analyses"] = history
	}
	return payload
}

// effectiveTargetRole falls back to the strongest proposed pathway when
// the form left the target role blank.
func (p *Processor) effectiveTargetRole(form *ProfileForm, doc map[string]interface{}) string {
	if form.TargetRole != "" {
		return form.TargetRole
	}
	if cp, ok := doc["career_pathways"].(map[string]interface{}); ok {
		if arr, ok := cp["pathways"].([]interface{}); ok && len(arr) > 0 {
			if first, ok := arr[0].(map[string]interface{}); ok {
				if title, ok := first["title"].(string); ok && title != "" {
					slog.Info("processor: target role inferred from pathways", "role", title)
					return title
				}
			}
		}
	}
	return "Career progression"
}

// liftMatchScore copies the computed match score from the gap analysis
// into the executive summary when the summary came back without one. The
// gap stage owns that number; the summary only displays it.
func liftMatchScore(doc map[string]interface{}) {
	ga, ok := doc["skill_gap_analysis"].(map[string]interface{})
	if !ok {
		return
	}
	score, ok := ga["match_score"].(float64)
	if !ok {
		return
	}
	sum, ok := doc["executive_summary"].(map[string]interface{})
	if !ok {
		return
	}
	if cur, ok := sum["match_score"].(float64); !ok || cur == 0 {
		sum["match_score"] = score
	}
}
