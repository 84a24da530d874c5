package model

import (
	"strings"
	"testing"
)

// messyRaw mimics what the staged pipeline actually hands over: mixed
// types, junk keys, out-of-range numbers, a bare pathway array.
func messyRaw() map[string]interface{} {
	return map[string]interface{}{
		"user_name":    "Alex Morgan",
		"current_role": "Data Analyst",
		"target_role":  "Data Scientist",
		"generated_at": "2026-03-14T10:30:00Z",
		"debug_info":   map[string]interface{}{"model": "something"},
		"executive_summary": map[string]interface{}{
			"text":        "A focused year of growth ahead.",
			"match_score": 68.4,
			"highlights":  []interface{}{"h1", "h2", "h3", "h4", "h5", "h6", "h7"},
		},
		"skill_mapping": map[string]interface{}{
			"skills": []interface{}{
				map[string]interface{}{"name": "SQL", "proficiency": 9.0},
				"Python",
				map[string]interface{}{"proficiency": 4.0},
			},
		},
		"skill_gap_analysis": map[string]interface{}{
			"match_score":     "72",
			"matching_skills": []interface{}{"SQL", "Python"},
			"summary":         "Solid base, gaps in deployment.",
			"gaps": []interface{}{
				map[string]interface{}{"skill": "MLOps", "priority": "URGENT"},
				"Kubernetes",
			},
		},
		"career_pathways": []interface{}{
			map[string]interface{}{"title": "Track A", "fit_score": 80.0, "steps": []interface{}{"step"}},
			map[string]interface{}{"title": "Track B", "fit_score": 75.0, "steps": []interface{}{"step"}},
			map[string]interface{}{"title": "Track C", "fit_score": 70.0, "steps": []interface{}{"step"}},
			map[string]interface{}{"title": "Track D", "fit_score": 65.0, "steps": []interface{}{"step"}},
			map[string]interface{}{"title": "Track E", "fit_score": 60.0, "steps": []interface{}{"step"}},
		},
		"development_plan": map[string]interface{}{
			"phases": []interface{}{
				map[string]interface{}{"name": "Months 1-3", "actions": []interface{}{"Do the course"}},
			},
		},
		"learning_resources": []interface{}{
			map[string]interface{}{"title": "MLOps Specialization", "provider": "Coursera"},
			"Designing Data-Intensive Applications",
		},
	}
}

func TestNormalizeReportPassesSchema(t *testing.T) {
	out := NormalizeReport(messyRaw())
	if err := ValidateMap(out); err != nil {
		t.Fatalf("normalized report failed validation: %v", err)
	}
	if _, ok := out["debug_info"]; ok {
		t.Error("unknown top-level key survived normalization")
	}
}

func TestNormalizeExecutiveSummary(t *testing.T) {
	out := NormalizeReport(messyRaw())
	sum := out["executive_summary"].(map[string]interface{})
	if sum["match_score"] != 68 {
		t.Errorf("match_score = %v, want 68 (float truncated)", sum["match_score"])
	}
	if hs := sum["highlights"].([]interface{}); len(hs) != 5 {
		t.Errorf("highlights capped at %d, want 5", len(hs))
	}

	t.Run("bare string", func(t *testing.T) {
		raw := messyRaw()
		raw["executive_summary"] = "Plain prose."
		sum := NormalizeReport(raw)["executive_summary"].(map[string]interface{})
		if sum["text"] != "Plain prose." || sum["match_score"] != 0 {
			t.Errorf("string summary normalized to %v", sum)
		}
	})

	t.Run("missing entirely", func(t *testing.T) {
		raw := messyRaw()
		delete(raw, "executive_summary")
		sum := NormalizeReport(raw)["executive_summary"].(map[string]interface{})
		if sum["text"] == "" {
			t.Error("empty summary must get the fallback text")
		}
	})
}

func TestNormalizeSkillMapping(t *testing.T) {
	out := NormalizeReport(messyRaw())
	sm := out["skill_mapping"].(map[string]interface{})
	if sm["framework"] != "SFIA 8" {
		t.Errorf("default framework = %v", sm["framework"])
	}
	skills := sm["skills"].([]interface{})
	if len(skills) != 2 {
		t.Fatalf("got %d skills, want 2 (nameless entry dropped)", len(skills))
	}
	first := skills[0].(map[string]interface{})
	if first["proficiency"] != 5 {
		t.Errorf("proficiency = %v, want clamped to 5", first["proficiency"])
	}
	if first["category"] != "general" {
		t.Errorf("category = %v, want default", first["category"])
	}
	second := skills[1].(map[string]interface{})
	if second["name"] != "Python" || second["proficiency"] != 3 {
		t.Errorf("string skill entry normalized to %v", second)
	}
}

func TestNormalizeGapAnalysis(t *testing.T) {
	out := NormalizeReport(messyRaw())
	ga := out["skill_gap_analysis"].(map[string]interface{})
	if ga["match_score"] != 72 {
		t.Errorf("match_score = %v, want 72 parsed from string", ga["match_score"])
	}
	gaps := ga["gaps"].([]interface{})
	if len(gaps) != 2 {
		t.Fatalf("got %d gaps, want 2", len(gaps))
	}
	first := gaps[0].(map[string]interface{})
	if first["priority"] != "medium" {
		t.Errorf("unknown priority coerced to %v, want medium", first["priority"])
	}
	second := gaps[1].(map[string]interface{})
	if second["skill"] != "Kubernetes" {
		t.Errorf("string gap entry normalized to %v", second)
	}
}

func TestNormalizePathways(t *testing.T) {
	out := NormalizeReport(messyRaw())
	cp := out["career_pathways"].(map[string]interface{})
	pathways := cp["pathways"].([]interface{})
	if len(pathways) != 4 {
		t.Fatalf("got %d pathways, want trimmed to 4", len(pathways))
	}
	first := pathways[0].(map[string]interface{})
	if first["timeframe"] != "12-24 months" {
		t.Errorf("timeframe = %v, want default", first["timeframe"])
	}
	steps := first["steps"].([]interface{})
	if len(steps) != 1 {
		t.Fatalf("steps = %v", steps)
	}
	if steps[0].(map[string]interface{})["title"] != "step" {
		t.Errorf("string step normalized to %v", steps[0])
	}

	t.Run("missing", func(t *testing.T) {
		raw := messyRaw()
		delete(raw, "career_pathways")
		cp := NormalizeReport(raw)["career_pathways"].(map[string]interface{})
		if got := cp["pathways"].([]interface{}); len(got) != 0 {
			t.Errorf("missing pathways normalized to %v", got)
		}
	})
}

func TestNormalizeResources(t *testing.T) {
	out := NormalizeReport(messyRaw())
	lr, ok := out["learning_resources"].(map[string]interface{})
	if !ok {
		t.Fatal("bare resource array not wrapped")
	}
	resources := lr["resources"].([]interface{})
	if len(resources) != 2 {
		t.Fatalf("got %d resources, want 2", len(resources))
	}
	if resources[1].(map[string]interface{})["title"] != "Designing Data-Intensive Applications" {
		t.Errorf("string resource normalized to %v", resources[1])
	}

	t.Run("absent stays absent", func(t *testing.T) {
		raw := messyRaw()
		delete(raw, "learning_resources")
		if _, ok := NormalizeReport(raw)["learning_resources"]; ok {
			t.Error("missing resources must not be fabricated")
		}
	})
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("word ", 200)
	got := truncate(long, 100)
	if len(got) > 100 {
		t.Errorf("truncate left %d bytes, want <= 100", len(got))
	}
	if strings.HasSuffix(got, " ") {
		t.Error("truncate must cut at a word boundary, not leave a trailing space")
	}
	if short := truncate("short", 100); short != "short" {
		t.Errorf("truncate(%q) = %q", "short", short)
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want int
	}{
		{"float in range", 68.4, 68},
		{"int", 50, 50},
		{"numeric string", "72", 72},
		{"negative", -3.0, 0},
		{"too large", 150.0, 100},
		{"garbage string", "a lot", 0},
		{"nil", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampScore(tt.in); got != tt.want {
				t.Errorf("clampScore(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
