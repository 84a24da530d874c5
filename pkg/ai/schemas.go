package ai

import "google.golang.org/genai"

// Typed response schemas, one per stage. These mirror the relevant
// slices of report.schema.json so model output lands close to valid;
// normalization still runs afterwards.

var skillProfileSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"executive_summary": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"text":        {Type: genai.TypeString, Description: "2-4 sentence readiness summary, second person."},
				"match_score": {Type: genai.TypeInteger, Description: "Readiness for the target role, 0-100."},
				"highlights": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
			},
			Required: []string{"text", "match_score"},
		},
		"skill_mapping": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"framework": {Type: genai.TypeString},
				"skills": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"name":        {Type: genai.TypeString},
							"category":    {Type: genai.TypeString, Enum: []string{"technical", "leadership", "communication", "domain", "process"}},
							"proficiency": {Type: genai.TypeInteger, Description: "1-5."},
							"evidence":    {Type: genai.TypeString},
						},
						Required: []string{"name", "category", "proficiency"},
					},
				},
			},
			Required: []string{"framework", "skills"},
		},
	},
	Required: []string{"executive_summary", "skill_mapping"},
}

var gapAnalysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"skill_gap_analysis": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"match_score":     {Type: genai.TypeInteger, Description: "0-100."},
				"matching_skills": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"gaps": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"skill":         {Type: genai.TypeString},
							"category":      {Type: genai.TypeString},
							"priority":      {Type: genai.TypeString, Enum: []string{"high", "medium", "low"}},
							"learning_time": {Type: genai.TypeString},
							"suggestion":    {Type: genai.TypeString},
						},
						Required: []string{"skill", "category", "priority"},
					},
				},
				"summary": {Type: genai.TypeString},
			},
			Required: []string{"match_score", "matching_skills", "gaps", "summary"},
		},
	},
	Required: []string{"skill_gap_analysis"},
}

var pathwaysSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"career_pathways": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"pathways": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"title":     {Type: genai.TypeString},
							"fit_score": {Type: genai.TypeInteger, Description: "0-100."},
							"timeframe": {Type: genai.TypeString},
							"outlook":   {Type: genai.TypeString},
							"steps": {
								Type: genai.TypeArray,
								Items: &genai.Schema{
									Type: genai.TypeObject,
									Properties: map[string]*genai.Schema{
										"title":    {Type: genai.TypeString},
										"duration": {Type: genai.TypeString},
										"detail":   {Type: genai.TypeString},
									},
									Required: []string{"title"},
								},
							},
						},
						Required: []string{"title", "fit_score", "timeframe", "steps"},
					},
				},
			},
			Required: []string{"pathways"},
		},
	},
	Required: []string{"career_pathways"},
}

var developmentPlanSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"development_plan": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"phases": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"name":     {Type: genai.TypeString},
							"duration": {Type: genai.TypeString},
							"actions":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
							"metrics":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
						},
						Required: []string{"name", "duration", "actions"},
					},
				},
			},
			Required: []string{"phases"},
		},
		"learning_resources": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"resources": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"title":    {Type: genai.TypeString},
							"provider": {Type: genai.TypeString},
							"url":      {Type: genai.TypeString},
							"skill":    {Type: genai.TypeString},
							"level":    {Type: genai.TypeString, Enum: []string{"beginner", "intermediate", "advanced"}},
						},
						Required: []string{"title"},
					},
				},
			},
			Required: []string{"resources"},
		},
	},
	Required: []string{"development_plan"},
}
