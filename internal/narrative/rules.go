package narrative

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/job-assistant/internal/jobs"
	"github.com/spigell/job-assistant/internal/matching"
	"github.com/spigell/job-assistant/internal/resume"
	"github.com/spigell/job-assistant/internal/textnorm"
)

const (
	goodSkillCount      = 5
	goodExperienceCount = 3
)

// RuleAuthor builds critiques and questions from fixed rules and a question
// bank. It never returns an error.
type RuleAuthor struct {
	scorer *matching.Scorer
}

func NewRuleAuthor() *RuleAuthor {
	return &RuleAuthor{scorer: matching.NewScorer(nil)}
}

func (r *RuleAuthor) Critique(_ context.Context, p *resume.Profile, target *jobs.Posting) (string, error) {
	if p == nil {
		p = &resume.Profile{}
	}

	var b strings.Builder
	b.WriteString("OVERALL ASSESSMENT\n\n")

	var strengths []string
	if len(p.Skills) >= goodSkillCount {
		strengths = append(strengths, "Good range of technical skills")
	}
	if len(p.Experience) >= goodExperienceCount {
		strengths = append(strengths, "Solid work experience")
	}
	if hasAnySkill(p.Skills, "machine learning", "deep learning", "ai", "ml") {
		strengths = append(strengths, "Valuable AI/ML skills that are in high demand")
	}
	if len(strengths) == 0 {
		strengths = append(strengths, "Resume contains some relevant skills")
	}
	writeBullets(&b, "Strengths:", strengths)

	var weaknesses []string
	if len(p.Skills) < goodSkillCount {
		weaknesses = append(weaknesses, "Limited range of technical skills listed")
	}
	if !hasAnySkill(p.Skills, "python") {
		weaknesses = append(weaknesses, "Python (a widely used programming language) not explicitly listed")
	}
	for _, missing := range resume.Summarize(p).Improvements {
		weaknesses = append(weaknesses, fmt.Sprintf("%s not evident", missing))
	}
	if len(weaknesses) == 0 {
		weaknesses = append(weaknesses, "Consider adding more specific technical skills")
	}
	b.WriteString("\n")
	writeBullets(&b, "Weaknesses:", weaknesses)

	b.WriteString("\nCONTENT IMPROVEMENTS\n\n")
	writeBullets(&b, "", []string{
		"Consider quantifying your achievements with specific metrics",
		"Organize skills by category (programming languages, frameworks, tools)",
		"Focus on highlighting relevant skills for your target roles",
	})

	b.WriteString("\nFORMAT SUGGESTIONS\n\n")
	writeBullets(&b, "", []string{
		"Use a clean, ATS-friendly format with clear section headings",
		"Ensure consistent formatting (bullet points, dates, etc.)",
		"Keep resume to 1-2 pages maximum",
	})

	b.WriteString("\nATS OPTIMIZATION\n\n")
	writeBullets(&b, "", []string{
		"Use keywords from job descriptions in your resume",
		"Save your resume as a PDF to maintain formatting",
		"Avoid tables, headers/footers, and images that can confuse ATS systems",
	})

	if target != nil && strings.TrimSpace(target.Description) != "" {
		report := r.scorer.Score(p.Skills, target.Description).Limit(matching.DisplayLimit)
		b.WriteString("\nTARGET ROLE ALIGNMENT\n\n")
		lines := []string{fmt.Sprintf("Match score for %s at %s: %d/100", target.Title, target.Company, report.MatchScore)}
		if len(report.KeyMatches) > 0 {
			lines = append(lines, "Matching skills: "+strings.Join(report.KeyMatches, ", "))
		}
		lines = append(lines, report.Recommendations...)
		writeBullets(&b, "", lines)
	}

	return strings.TrimRight(b.String(), "\n") + "\n", nil
}

func (r *RuleAuthor) InterviewQuestions(_ context.Context, _ *resume.Profile, req InterviewRequest) (QuestionSet, error) {
	req = req.Normalize()

	tips := difficultyTips[req.Difficulty]
	if tips == "" {
		tips = difficultyTips[Intermediate]
	}

	replacer := strings.NewReplacer(
		"{role}", req.role(),
		"{company}", req.company(),
		"{level}", levelAdjective[req.Difficulty],
	)

	var set QuestionSet
	add := func(text string) {
		set = append(set, StructuredQuestion{
			Question: replacer.Replace(text),
			Approach: approachByType[req.Type],
			Tips:     tips,
		})
	}

	focusTemplate := focusTemplates[req.Type]
	for _, focus := range req.FocusAreas {
		add(strings.ReplaceAll(focusTemplate, "{focus}", focus))
	}
	for _, q := range questionBank[req.Type] {
		add(q)
	}

	return capQuestions(set, req.Count), nil
}

func writeBullets(b *strings.Builder, title string, items []string) {
	if title != "" {
		b.WriteString(title)
		b.WriteString("\n")
	}
	for _, item := range items {
		b.WriteString("• ")
		b.WriteString(item)
		b.WriteString("\n")
	}
}

func hasAnySkill(skills []string, terms ...string) bool {
	for _, s := range skills {
		for _, t := range terms {
			if textnorm.ContainsTerm(s, t) {
				return true
			}
		}
	}
	return false
}

var difficultyTips = map[string]string{
	EntryLevel:   "Focus on fundamentals and explain your reasoning step by step.",
	Intermediate: "Support your answer with a concrete example from past work.",
	Advanced:     "Discuss the trade-offs and the alternatives you considered.",
	Expert:       "Cover scale and failure modes, and explain how you would guide a team through the decision.",
}

var levelAdjective = map[string]string{
	EntryLevel:   "an introductory",
	Intermediate: "a medium-difficulty",
	Advanced:     "a challenging",
	Expert:       "an expert-level",
}

var approachByType = map[InterviewType]string{
	TechnicalInterview:  "Define the concept, explain how it works and relate it to a project you delivered.",
	BehavioralInterview: "Use the STAR method: Situation, Task, Action, Result.",
	CodingInterview:     "Clarify the input, state a brute-force idea, then optimise and analyse complexity.",
	SystemDesign:        "Gather requirements, sketch the components, then walk through data flow and bottlenecks.",
	ProjectExperience:   "Describe the goal, your specific contribution and the measurable outcome.",
}

var focusTemplates = map[InterviewType]string{
	TechnicalInterview:  "How have you applied {focus} in your work, and how would you use it as {role} at {company}?",
	BehavioralInterview: "Tell me about a time that demonstrates your {focus}.",
	CodingInterview:     "Solve {level} exercise on {focus} and explain the complexity of your solution.",
	SystemDesign:        "How would you address {focus} when designing a core service for {company}?",
	ProjectExperience:   "Describe a project where {focus} mattered most. What was your role?",
}

var questionBank = map[InterviewType][]string{
	TechnicalInterview: {
		"Walk me through the architecture of a system you built recently.",
		"How do you decide between a relational and a document database?",
		"How do you make sure your code is testable and well tested?",
		"Explain how you would find and fix a performance problem in production.",
		"Which technology in your stack would you replace, and why?",
		"How do you keep your technical skills current for {role}?",
		"Describe how you handle errors and retries when calling external services.",
		"What does a good code review look like to you?",
	},
	BehavioralInterview: {
		"Why are you interested in the {role} position at {company}?",
		"Tell me about a time you disagreed with a teammate. How was it resolved?",
		"Describe a situation where you had to meet a tight deadline.",
		"Tell me about a mistake you made and what you learned from it.",
		"How do you prioritise when everything seems urgent?",
		"Describe a time you received difficult feedback.",
		"Tell me about a time you went beyond what was expected.",
		"How do you adapt when requirements change mid-project?",
	},
	CodingInterview: {
		"Write a function that returns the first non-repeating character in a string.",
		"Given an array of integers, return the indices of two numbers that add up to a target.",
		"Reverse a singly linked list, iteratively and recursively.",
		"Check whether a string of brackets is balanced.",
		"Merge overlapping intervals in a list of ranges.",
		"Find the length of the longest substring without repeating characters.",
		"Implement an LRU cache with O(1) get and put.",
		"Return the k most frequent elements of an array.",
	},
	SystemDesign: {
		"Design a URL shortening service.",
		"Design a job board that ingests postings from several platforms.",
		"Design a rate limiter for a public API.",
		"Design a notification system that sends email and push messages.",
		"How would you design a search-as-you-type feature?",
		"Design a file storage service with sharing links.",
		"How would you migrate a monolith used by {company} to services without downtime?",
		"Design a metrics collection and alerting pipeline.",
	},
	ProjectExperience: {
		"Which project are you most proud of, and why?",
		"Describe the hardest technical problem you solved in a project.",
		"Tell me about a project that failed or was cancelled. What did you learn?",
		"How did you measure the success of your last project?",
		"Describe how you worked with stakeholders to define project scope.",
		"What would you do differently if you restarted your last project?",
		"How did you onboard others to a project you led?",
		"Which project best prepares you for {role}?",
	},
}
