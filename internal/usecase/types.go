package usecase

import (
	"fmt"
	"strconv"
	"strings"
)

// ProfileForm is the submitted career questionnaire, normalized from the
// loose JSON the frontend posts.
type ProfileForm struct {
	Name            string       `json:"name"`
	Email           string       `json:"email,omitempty"`
	CurrentRole     string       `json:"current_role"`
	YearsExperience float64      `json:"years_experience,omitempty"`
	Education       string       `json:"education,omitempty"`
	Skills          []SkillInput `json:"skills,omitempty"`
	Interests       []string     `json:"interests,omitempty"`
	TargetRole      string       `json:"target_role"`
	Goals           string       `json:"goals,omitempty"`
	CVText          string       `json:"cv_text,omitempty"`

	Other map[string]interface{} `json:"-"`
}

// SkillInput is one self-reported skill. Level is 1..5; zero means the
// user did not rate it.
type SkillInput struct {
	Name  string `json:"name"`
	Level int    `json:"level,omitempty"`
}

// Validate checks the fields the pipeline cannot run without. A missing
// target role is allowed: the pathways stage proposes adjacent roles
// instead.
func (f *ProfileForm) Validate() error {
	var missing []string
	if strings.TrimSpace(f.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(f.CurrentRole) == "" {
		missing = append(missing, "current_role")
	}
	if len(missing) > 0 {
		return fmt.Errorf("profile form missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ToMap converts the form back into the map shape the AI payload and
// storage layers use.
func (f *ProfileForm) ToMap() map[string]interface{} {
	out := map[string]interface{}{}
	if f == nil {
		return out
	}
	out["name"] = f.Name
	out["current_role"] = f.CurrentRole
	out["target_role"] = f.TargetRole
	if f.Email != "" {
		out["email"] = f.Email
	}
	if f.YearsExperience > 0 {
		out["years_experience"] = f.YearsExperience
	}
	if f.Education != "" {
		out["education"] = f.Education
	}
	if len(f.Skills) > 0 {
		skills := make([]interface{}, 0, len(f.Skills))
		for _, s := range f.Skills {
			m := map[string]interface{}{"name": s.Name}
			if s.Level > 0 {
				m["level"] = s.Level
			}
			skills = append(skills, m)
		}
		out["skills"] = skills
	}
	if len(f.Interests) > 0 {
		ints := make([]interface{}, 0, len(f.Interests))
		for _, it := range f.Interests {
			ints = append(ints, it)
		}
		out["interests"] = ints
	}
	if f.Goals != "" {
		out["goals"] = f.Goals
	}
	if f.CVText != "" {
		out["cv_text"] = f.CVText
	}
	for k, v := range f.Other {
		if _, exists := out[k]; !exists {
			out[k] = v
		}
	}
	return out
}

// NewProfileFormFromMap converts a generic map into a ProfileForm. It
// tolerates the shapes frontends actually send: skills as plain strings
// or rated objects, comma-separated interest lists, numbers as strings.
func NewProfileFormFromMap(m map[string]interface{}) *ProfileForm {
	out := &ProfileForm{Other: map[string]interface{}{}}
	if m == nil {
		return out
	}

	out.Name = firstString(m, "name", "full_name", "user_name")
	out.Email = firstString(m, "email")
	out.CurrentRole = firstString(m, "current_role", "role")
	out.Education = firstString(m, "education")
	out.TargetRole = firstString(m, "target_role", "desired_role")
	out.Goals = firstString(m, "goals", "career_goals")
	out.CVText = firstString(m, "cv_text")
	out.YearsExperience = asFloat(m["years_experience"])

	if s, ok := m["skills"]; ok {
		switch t := s.(type) {
		case []interface{}:
			for _, it := range t {
				switch v := it.(type) {
				case string:
					if name := strings.TrimSpace(v); name != "" {
						out.Skills = append(out.Skills, SkillInput{Name: name})
					}
				case map[string]interface{}:
					sk := SkillInput{}
					if n, ok := v["name"].(string); ok {
						sk.Name = strings.TrimSpace(n)
					}
					sk.Level = clampLevel(int(asFloat(v["level"])))
					if sk.Name != "" {
						out.Skills = append(out.Skills, sk)
					}
				}
			}
		case string:
			for _, part := range strings.Split(t, ",") {
				if name := strings.TrimSpace(part); name != "" {
					out.Skills = append(out.Skills, SkillInput{Name: name})
				}
			}
		}
	}

	if iv, ok := m["interests"]; ok {
		switch t := iv.(type) {
		case []interface{}:
			for _, it := range t {
				if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
					out.Interests = append(out.Interests, strings.TrimSpace(s))
				}
			}
		case string:
			for _, part := range strings.Split(t, ",") {
				if s := strings.TrimSpace(part); s != "" {
					out.Interests = append(out.Interests, s)
				}
			}
		}
	}

	known := map[string]bool{
		"name": true, "full_name": true, "user_name": true, "email": true,
		"current_role": true, "role": true, "years_experience": true,
		"education": true, "skills": true, "interests": true,
		"target_role": true, "desired_role": true, "goals": true,
		"career_goals": true, "cv_text": true,
	}
	for k, v := range m {
		if !known[k] {
			out.Other[k] = v
		}
	}
	return out
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func asFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func clampLevel(l int) int {
	if l < 0 {
		return 0
	}
	if l > 5 {
		return 5
	}
	return l
}
