package model

import (
	"fmt"
	"log/slog"
	"strings"
)

// The analysis stages return loose maps decoded straight from LLM JSON.
// NormalizeReport coerces that output into the shape report.schema.json
// expects so rendering never branches on malformed data. Unknown keys
// are dropped, mistyped values coerced, scores clamped, long text
// truncated at a word boundary.

const (
	maxSummaryLen    = 600
	maxSuggestionLen = 210
	maxEvidenceLen   = 210
	maxHighlights    = 5
)

var validPriorities = map[string]bool{"high": true, "medium": true, "low": true}

// NormalizeReport returns a new map containing only schema fields.
func NormalizeReport(raw map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	if raw == nil {
		return out
	}

	for _, k := range []string{"user_name", "current_role", "target_role", "generated_at"} {
		if s := asString(raw[k]); s != "" {
			out[k] = s
		}
	}

	out["executive_summary"] = normalizeExecutiveSummary(raw["executive_summary"])
	out["skill_mapping"] = normalizeSkillMapping(raw["skill_mapping"])
	out["skill_gap_analysis"] = normalizeGapAnalysis(raw["skill_gap_analysis"])
	out["career_pathways"] = normalizePathways(raw["career_pathways"])
	out["development_plan"] = normalizePlan(raw["development_plan"])
	if lr := normalizeResources(raw["learning_resources"]); lr != nil {
		out["learning_resources"] = lr
	}

	return out
}

func normalizeExecutiveSummary(v interface{}) map[string]interface{} {
	m := map[string]interface{}{}
	switch t := v.(type) {
	case map[string]interface{}:
		m["text"] = truncate(asString(t["text"]), maxSummaryLen)
		m["match_score"] = clampScore(t["match_score"])
		hs := asStringSlice(t["highlights"])
		if len(hs) > maxHighlights {
			hs = hs[:maxHighlights]
		}
		if len(hs) > 0 {
			m["highlights"] = toIfaceSlice(hs)
		}
	case string:
		// model returned bare prose instead of the object
		slog.Debug("normalize: executive_summary arrived as string")
		m["text"] = truncate(t, maxSummaryLen)
		m["match_score"] = 0
	default:
		m["text"] = ""
		m["match_score"] = 0
	}
	if asString(m["text"]) == "" {
		m["text"] = "No summary was produced for this analysis."
	}
	return m
}

func normalizeSkillMapping(v interface{}) map[string]interface{} {
	m := map[string]interface{}{"framework": "SFIA 8", "skills": []interface{}{}}
	t, ok := v.(map[string]interface{})
	if !ok {
		return m
	}
	if fw := asString(t["framework"]); fw != "" {
		m["framework"] = fw
	}
	arr, _ := t["skills"].([]interface{})
	skills := make([]interface{}, 0, len(arr))
	for _, it := range arr {
		switch s := it.(type) {
		case map[string]interface{}:
			entry := map[string]interface{}{
				"name":        asString(s["name"]),
				"category":    defaultStr(asString(s["category"]), "general"),
				"proficiency": clampRange(s["proficiency"], 1, 5),
			}
			if ev := asString(s["evidence"]); ev != "" {
				entry["evidence"] = truncate(ev, maxEvidenceLen)
			}
			if entry["name"] != "" {
				skills = append(skills, entry)
			}
		case string:
			skills = append(skills, map[string]interface{}{"name": s, "category": "general", "proficiency": 3})
		}
	}
	m["skills"] = skills
	return m
}

func normalizeGapAnalysis(v interface{}) map[string]interface{} {
	m := map[string]interface{}{
		"match_score":     0,
		"matching_skills": []interface{}{},
		"gaps":            []interface{}{},
		"summary":         "",
	}
	t, ok := v.(map[string]interface{})
	if !ok {
		return m
	}
	m["match_score"] = clampScore(t["match_score"])
	m["matching_skills"] = toIfaceSlice(asStringSlice(t["matching_skills"]))
	m["summary"] = truncate(asString(t["summary"]), maxSummaryLen)

	arr, _ := t["gaps"].([]interface{})
	gaps := make([]interface{}, 0, len(arr))
	for _, it := range arr {
		switch g := it.(type) {
		case map[string]interface{}:
			prio := strings.ToLower(asString(g["priority"]))
			if !validPriorities[prio] {
				prio = "medium"
			}
			gap := map[string]interface{}{
				"skill":    asString(g["skill"]),
				"category": defaultStr(asString(g["category"]), "technical"),
				"priority": prio,
			}
			if lt := asString(g["learning_time"]); lt != "" {
				gap["learning_time"] = lt
			}
			if sg := asString(g["suggestion"]); sg != "" {
				gap["suggestion"] = truncate(sg, maxSuggestionLen)
			}
			if gap["skill"] != "" {
				gaps = append(gaps, gap)
			}
		case string:
			gaps = append(gaps, map[string]interface{}{"skill": g, "category": "technical", "priority": "medium"})
		}
	}
	m["gaps"] = gaps
	return m
}

func normalizePathways(v interface{}) map[string]interface{} {
	m := map[string]interface{}{"pathways": []interface{}{}}
	var arr []interface{}
	switch t := v.(type) {
	case map[string]interface{}:
		arr, _ = t["pathways"].([]interface{})
	case []interface{}:
		// model sometimes returns the array without the wrapper object
		slog.Debug("normalize: career_pathways arrived as bare array")
		arr = t
	default:
		return m
	}

	out := make([]interface{}, 0, len(arr))
	for _, it := range arr {
		p, ok := it.(map[string]interface{})
		if !ok {
			continue
		}
		steps, _ := p["steps"].([]interface{})
		normSteps := make([]interface{}, 0, len(steps))
		for _, st := range steps {
			switch s := st.(type) {
			case map[string]interface{}:
				step := map[string]interface{}{"title": asString(s["title"])}
				if d := asString(s["duration"]); d != "" {
					step["duration"] = d
				}
				if dt := asString(s["detail"]); dt != "" {
					step["detail"] = truncate(dt, maxSuggestionLen)
				}
				if step["title"] != "" {
					normSteps = append(normSteps, step)
				}
			case string:
				normSteps = append(normSteps, map[string]interface{}{"title": s})
			}
		}
		pw := map[string]interface{}{
			"title":     asString(p["title"]),
			"fit_score": clampScore(p["fit_score"]),
			"timeframe": defaultStr(asString(p["timeframe"]), "12-24 months"),
			"steps":     normSteps,
		}
		if o := asString(p["outlook"]); o != "" {
			pw["outlook"] = truncate(o, maxSuggestionLen)
		}
		if pw["title"] != "" {
			out = append(out, pw)
		}
	}
	if len(out) > 4 {
		slog.Debug("normalize: trimming pathways", "got", len(out))
		out = out[:4]
	}
	m["pathways"] = out
	return m
}

func normalizePlan(v interface{}) map[string]interface{} {
	m := map[string]interface{}{"phases": []interface{}{}}
	t, ok := v.(map[string]interface{})
	if !ok {
		return m
	}
	arr, _ := t["phases"].([]interface{})
	phases := make([]interface{}, 0, len(arr))
	for _, it := range arr {
		p, ok := it.(map[string]interface{})
		if !ok {
			continue
		}
		phase := map[string]interface{}{
			"name":     asString(p["name"]),
			"duration": defaultStr(asString(p["duration"]), "3 months"),
			"actions":  toIfaceSlice(asStringSlice(p["actions"])),
		}
		if ms := asStringSlice(p["metrics"]); len(ms) > 0 {
			phase["metrics"] = toIfaceSlice(ms)
		}
		if phase["name"] != "" {
			phases = append(phases, phase)
		}
	}
	m["phases"] = phases
	return m
}

func normalizeResources(v interface{}) map[string]interface{} {
	var arr []interface{}
	switch t := v.(type) {
	case map[string]interface{}:
		arr, _ = t["resources"].([]interface{})
	case []interface{}:
		arr = t
	default:
		return nil
	}
	out := make([]interface{}, 0, len(arr))
	for _, it := range arr {
		switch r := it.(type) {
		case map[string]interface{}:
			res := map[string]interface{}{"title": asString(r["title"])}
			for _, k := range []string{"provider", "url", "skill", "level"} {
				if s := asString(r[k]); s != "" {
					res[k] = s
				}
			}
			if res["title"] != "" {
				out = append(out, res)
			}
		case string:
			out = append(out, map[string]interface{}{"title": r})
		}
	}
	if len(out) == 0 {
		return nil
	}
	return map[string]interface{}{"resources": out}
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", t), "0"), ".")
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

func asStringSlice(v interface{}) []string {
	switch t := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, it := range t {
			if s := asString(it); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return t
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
	}
	return nil
}

func toIfaceSlice(ss []string) []interface{} {
	out := make([]interface{}, 0, len(ss))
	for _, s := range ss {
		out = append(out, s)
	}
	return out
}

func defaultStr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// clampScore coerces numbers (or numeric strings) into the 0-100 range.
func clampScore(v interface{}) int {
	return clampRange(v, 0, 100)
}

func clampRange(v interface{}, lo, hi int) int {
	var n int
	switch t := v.(type) {
	case float64:
		n = int(t)
	case int:
		n = t
	case string:
		fmt.Sscanf(strings.TrimSpace(t), "%d", &n)
	default:
		n = lo
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// truncate shortens s to max bytes without cutting mid-word.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}
