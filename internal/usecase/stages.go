package usecase

import (
	"context"
	"fmt"
	"log/slog"

	ai "github.com/sahil-skillgenix/CareerNavigatorAI-sub000/pkg/ai"
)

// StageValidationResult holds validation state for one pipeline stage.
type StageValidationResult struct {
	Valid    bool
	Missing  []string
	Fragment map[string]interface{}
	Error    string
}

// SkillProfileValidator checks the foundation stage: executive_summary
// and skill_mapping with a non-empty skill list.
func SkillProfileValidator(doc map[string]interface{}) *StageValidationResult {
	result := &StageValidationResult{
		Valid:    true,
		Missing:  []string{},
		Fragment: map[string]interface{}{},
	}

	sumRaw, hasSum := doc["executive_summary"]
	if !hasSum {
		result.Valid = false
		result.Missing = append(result.Missing, "executive_summary")
	} else {
		switch t := sumRaw.(type) {
		case string:
			if t == "" {
				result.Valid = false
				result.Missing = append(result.Missing, "executive_summary (empty)")
			} else {
				result.Fragment["executive_summary"] = t
			}
		case map[string]interface{}:
			if text, ok := t["text"].(string); !ok || text == "" {
				result.Valid = false
				result.Missing = append(result.Missing, "executive_summary.text")
			} else {
				result.Fragment["executive_summary"] = t
			}
		default:
			result.Valid = false
			result.Error = fmt.Sprintf("executive_summary is invalid type: %T", sumRaw)
		}
	}

	smRaw, hasSM := doc["skill_mapping"]
	if !hasSM {
		result.Valid = false
		result.Missing = append(result.Missing, "skill_mapping")
		return result
	}
	sm, ok := smRaw.(map[string]interface{})
	if !ok {
		result.Valid = false
		result.Error = fmt.Sprintf("skill_mapping is invalid type: %T", smRaw)
		return result
	}
	skills, ok := sm["skills"].([]interface{})
	if !ok || len(skills) == 0 {
		result.Valid = false
		result.Missing = append(result.Missing, "skill_mapping.skills")
		return result
	}
	for i, it := range skills {
		entry, ok := it.(map[string]interface{})
		if !ok {
			if _, isStr := it.(string); isStr {
				continue
			}
			result.Valid = false
			result.Missing = append(result.Missing, fmt.Sprintf("skill_mapping.skills[%d] invalid type", i))
			continue
		}
		if name, ok := entry["name"].(string); !ok || name == "" {
			result.Valid = false
			result.Missing = append(result.Missing, fmt.Sprintf("skill_mapping.skills[%d].name", i))
		}
	}
	result.Fragment["skill_mapping"] = sm
	return result
}

// GapAnalysisValidator checks the comparison stage: skill_gap_analysis
// with a gap list and a match score inside its documented range.
func GapAnalysisValidator(doc map[string]interface{}) *StageValidationResult {
	result := &StageValidationResult{
		Valid:    true,
		Missing:  []string{},
		Fragment: map[string]interface{}{},
	}

	gaRaw, has := doc["skill_gap_analysis"]
	if !has {
		result.Valid = false
		result.Missing = append(result.Missing, "skill_gap_analysis")
		return result
	}
	ga, ok := gaRaw.(map[string]interface{})
	if !ok {
		result.Valid = false
		result.Error = fmt.Sprintf("skill_gap_analysis is invalid type: %T", gaRaw)
		return result
	}

	if _, ok := ga["gaps"].([]interface{}); !ok {
		result.Valid = false
		result.Missing = append(result.Missing, "skill_gap_analysis.gaps")
	}
	msRaw, hasMS := ga["match_score"]
	if !hasMS {
		result.Valid = false
		result.Missing = append(result.Missing, "skill_gap_analysis.match_score")
	} else if ms, ok := msRaw.(float64); !ok || ms < 0 || ms > 100 {
		result.Valid = false
		result.Missing = append(result.Missing, fmt.Sprintf("skill_gap_analysis.match_score (out of range: %v)", msRaw))
	}

	if result.Valid {
		result.Fragment["skill_gap_analysis"] = ga
	}
	return result
}

// PathwaysValidator checks the options stage: career_pathways with at
// least one route, each carrying a title and steps.
func PathwaysValidator(doc map[string]interface{}) *StageValidationResult {
	result := &StageValidationResult{
		Valid:    true,
		Missing:  []string{},
		Fragment: map[string]interface{}{},
	}

	cpRaw, has := doc["career_pathways"]
	if !has {
		result.Valid = false
		result.Missing = append(result.Missing, "career_pathways")
		return result
	}

	var arr []interface{}
	switch t := cpRaw.(type) {
	case map[string]interface{}:
		arr, _ = t["pathways"].([]interface{})
	case []interface{}:
		arr = t
	default:
		result.Valid = false
		result.Error = fmt.Sprintf("career_pathways is invalid type: %T", cpRaw)
		return result
	}
	if len(arr) == 0 {
		result.Valid = false
		result.Missing = append(result.Missing, "career_pathways.pathways")
		return result
	}

	for i, it := range arr {
		pw, ok := it.(map[string]interface{})
		if !ok {
			result.Valid = false
			result.Missing = append(result.Missing, fmt.Sprintf("career_pathways.pathways[%d] invalid type", i))
			continue
		}
		if title, ok := pw["title"].(string); !ok || title == "" {
			result.Valid = false
			result.Missing = append(result.Missing, fmt.Sprintf("career_pathways.pathways[%d].title", i))
		}
		if steps, ok := pw["steps"].([]interface{}); !ok || len(steps) == 0 {
			result.Valid = false
			result.Missing = append(result.Missing, fmt.Sprintf("career_pathways.pathways[%d].steps", i))
		}
	}
	result.Fragment["career_pathways"] = map[string]interface{}{"pathways": arr}
	return result
}

// PlanValidator checks the synthesis stage: development_plan with
// non-empty phases, each listing concrete actions. learning_resources
// is optional and passes through when present.
func PlanValidator(doc map[string]interface{}) *StageValidationResult {
	result := &StageValidationResult{
		Valid:    true,
		Missing:  []string{},
		Fragment: map[string]interface{}{},
	}

	dpRaw, has := doc["development_plan"]
	if !has {
		result.Valid = false
		result.Missing = append(result.Missing, "development_plan")
		return result
	}
	dp, ok := dpRaw.(map[string]interface{})
	if !ok {
		result.Valid = false
		result.Error = fmt.Sprintf("development_plan is invalid type: %T", dpRaw)
		return result
	}
	phases, ok := dp["phases"].([]interface{})
	if !ok || len(phases) == 0 {
		result.Valid = false
		result.Missing = append(result.Missing, "development_plan.phases")
		return result
	}
	for i, it := range phases {
		ph, ok := it.(map[string]interface{})
		if !ok {
			result.Valid = false
			result.Missing = append(result.Missing, fmt.Sprintf("development_plan.phases[%d] invalid type", i))
			continue
		}
		if name, ok := ph["name"].(string); !ok || name == "" {
			result.Valid = false
			result.Missing = append(result.Missing, fmt.Sprintf("development_plan.phases[%d].name", i))
		}
		if actions, ok := ph["actions"].([]interface{}); !ok || len(actions) == 0 {
			result.Valid = false
			result.Missing = append(result.Missing, fmt.Sprintf("development_plan.phases[%d].actions", i))
		}
	}

	result.Fragment["development_plan"] = dp
	if lr, ok := doc["learning_resources"]; ok {
		result.Fragment["learning_resources"] = lr
	}
	return result
}

// enrichStage re-prompts one stage with the validator's feedback, merges
// the fresh fragment over the document and re-validates. Used by all
// four stages; only the client call and validator differ.
func enrichStage(
	ctx context.Context,
	stage string,
	payload map[string]interface{},
	doc map[string]interface{},
	validation *StageValidationResult,
	call func(context.Context, map[string]interface{}) (map[string]interface{}, error),
	validate func(map[string]interface{}) *StageValidationResult,
	mergeKeys []string,
) error {
	if validation.Valid {
		return nil
	}
	slog.Warn("processor: stage enriching", "stage", stage, "missing", validation.Missing, "error", validation.Error)

	retryPayload := make(map[string]interface{}, len(payload)+2)
	for k, v := range payload {
		retryPayload[k] = v
	}
	retryPayload["previous_attempt"] = pick(doc, mergeKeys)
	retryPayload["missing_fields"] = validation.Missing

	out, err := call(ctx, retryPayload)
	if err != nil {
		return fmt.Errorf("%s enrichment failed: %w", stage, err)
	}
	if out == nil {
		return fmt.Errorf("%s enrichment returned no output", stage)
	}
	for _, key := range mergeKeys {
		if val, ok := out[key]; ok {
			doc[key] = val
		}
	}

	revalidation := validate(doc)
	if !revalidation.Valid {
		return fmt.Errorf("%s still invalid after enrichment: %v", stage, revalidation.Missing)
	}
	return nil
}

func pick(m map[string]interface{}, keys []string) map[string]interface{} {
	out := map[string]interface{}{}
	for _, k := range keys {
		if v, ok := m[k]; ok {
			out[k] = v
		}
	}
	return out
}

// SkillProfileEnrich retries the foundation stage once.
func SkillProfileEnrich(ctx context.Context, aiClient *ai.Client, payload, doc map[string]interface{}, validation *StageValidationResult) error {
	return enrichStage(ctx, "skill_profile", payload, doc, validation,
		aiClient.SkillProfile, SkillProfileValidator,
		[]string{"executive_summary", "skill_mapping"})
}

// GapAnalysisEnrich retries the comparison stage once.
func GapAnalysisEnrich(ctx context.Context, aiClient *ai.Client, payload, doc map[string]interface{}, validation *StageValidationResult) error {
	return enrichStage(ctx, "gap_analysis", payload, doc, validation,
		aiClient.GapAnalysis, GapAnalysisValidator,
		[]string{"skill_gap_analysis"})
}

// PathwaysEnrich retries the options stage once.
func PathwaysEnrich(ctx context.Context, aiClient *ai.Client, payload, doc map[string]interface{}, validation *StageValidationResult) error {
	return enrichStage(ctx, "career_pathways", payload, doc, validation,
		aiClient.CareerPathways, PathwaysValidator,
		[]string{"career_pathways"})
}

// PlanEnrich retries the synthesis stage once.
func PlanEnrich(ctx context.Context, aiClient *ai.Client, payload, doc map[string]interface{}, validation *StageValidationResult) error {
	return enrichStage(ctx, "development_plan", payload, doc, validation,
		aiClient.DevelopmentPlan, PlanValidator,
		[]string{"development_plan", "learning_resources"})
}
