package model

import "encoding/json"

// Go models matching report.schema.json. The analysis pipeline works on
// loose maps until normalization; these types are the strict shape used
// by rendering and export.

type SkillEntry struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Proficiency int    `json:"proficiency"`
	Evidence    string `json:"evidence,omitempty"`
}

type SkillMapping struct {
	Framework string       `json:"framework"`
	Skills    []SkillEntry `json:"skills"`
}

type SkillGap struct {
	Skill        string `json:"skill"`
	Category     string `json:"category"`
	Priority     string `json:"priority"`
	LearningTime string `json:"learning_time,omitempty"`
	Suggestion   string `json:"suggestion,omitempty"`
}

type GapAnalysis struct {
	MatchScore     int        `json:"match_score"`
	MatchingSkills []string   `json:"matching_skills"`
	Gaps           []SkillGap `json:"gaps"`
	Summary        string     `json:"summary"`
}

type PathwayStep struct {
	Title    string `json:"title"`
	Duration string `json:"duration,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

type Pathway struct {
	Title     string        `json:"title"`
	FitScore  int           `json:"fit_score"`
	Timeframe string        `json:"timeframe"`
	Outlook   string        `json:"outlook,omitempty"`
	Steps     []PathwayStep `json:"steps"`
}

type CareerPathways struct {
	Pathways []Pathway `json:"pathways"`
}

type PlanPhase struct {
	Name     string   `json:"name"`
	Duration string   `json:"duration"`
	Actions  []string `json:"actions"`
	Metrics  []string `json:"metrics,omitempty"`
}

type DevelopmentPlan struct {
	Phases []PlanPhase `json:"phases"`
}

type LearningResource struct {
	Title    string `json:"title"`
	Provider string `json:"provider,omitempty"`
	URL      string `json:"url,omitempty"`
	Skill    string `json:"skill,omitempty"`
	Level    string `json:"level,omitempty"`
}

type LearningResources struct {
	Resources []LearningResource `json:"resources"`
}

type ExecutiveSummary struct {
	Text       string   `json:"text"`
	MatchScore int      `json:"match_score"`
	Highlights []string `json:"highlights,omitempty"`
}

type CareerReport struct {
	UserName    string `json:"user_name"`
	CurrentRole string `json:"current_role"`
	TargetRole  string `json:"target_role"`
	GeneratedAt string `json:"generated_at"`

	ExecutiveSummary  ExecutiveSummary   `json:"executive_summary"`
	SkillMapping      SkillMapping       `json:"skill_mapping"`
	SkillGapAnalysis  GapAnalysis        `json:"skill_gap_analysis"`
	CareerPathways    CareerPathways     `json:"career_pathways"`
	DevelopmentPlan   DevelopmentPlan    `json:"development_plan"`
	LearningResources *LearningResources `json:"learning_resources,omitempty"`
}

// ReportFromMap decodes a normalized report map into the typed form.
func ReportFromMap(m map[string]interface{}) (*CareerReport, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var r CareerReport
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ToMap converts the typed report back into the map form stored in Mongo.
func (r *CareerReport) ToMap() (map[string]interface{}, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
