package resume

// SkillVocabulary is the curated list of skills recognised anywhere in the
// resume text. Entries are lower-case; the extractor keeps the spelling found
// in the resume.
var SkillVocabulary = []string{
	// languages
	"python", "java", "javascript", "typescript", "golang", "go", "c++", "c#", "ruby", "php",
	"rust", "scala", "kotlin", "swift", "objective-c", "matlab", "perl", "bash", "shell scripting",
	"sql", "html", "css", "dart", "elixir", "haskell", "lua",
	// frameworks and libraries
	"react", "angular", "vue", "node.js", "node", "express", "django", "flask", "fastapi", "spring",
	"spring boot", ".net", "asp.net", "rails", "ruby on rails", "laravel", "next.js", "svelte",
	"tensorflow", "pytorch", "keras", "scikit-learn", "pandas", "numpy", "spark", "hadoop",
	"graphql", "rest", "grpc", "jquery", "bootstrap", "tailwind",
	// data and ml
	"machine learning", "deep learning", "data science", "data analysis", "data engineering",
	"natural language processing", "nlp", "computer vision", "statistics", "ai", "llm",
	"etl", "tableau", "power bi", "excel", "airflow", "kafka",
	// databases
	"postgresql", "mysql", "mongodb", "redis", "elasticsearch", "sqlite", "oracle", "nosql",
	"dynamodb", "cassandra", "snowflake", "bigquery",
	// cloud and devops
	"aws", "azure", "gcp", "google cloud", "docker", "kubernetes", "terraform", "ansible",
	"jenkins", "ci/cd", "git", "github actions", "gitlab", "linux", "prometheus", "grafana",
	"microservices", "serverless", "helm",
	// mobile
	"android", "ios", "react native", "flutter",
	// methodology
	"agile", "scrum", "kanban", "tdd", "devops", "jira",
	// soft skills
	"leadership", "communication", "teamwork", "problem solving", "project management",
	"mentoring", "time management", "collaboration", "critical thinking", "stakeholder management",
}

// Terms that are also common English words only count when written the way
// the technology is spelled.
var (
	acronymTerms     = map[string]struct{}{"ai": {}, "rest": {}, "etl": {}, "llm": {}, "tdd": {}}
	capitalizedTerms = map[string]struct{}{
		"go": {}, "spring": {}, "express": {}, "swift": {}, "rust": {}, "rails": {}, "dart": {},
		"excel": {}, "spark": {}, "helm": {}, "oracle": {}, "node": {},
	}
)

var (
	educationHeaders  = []string{"education", "academic", "qualifications", "degrees"}
	experienceHeaders = []string{"experience", "work", "employment", "career history", "professional history"}
	skillsHeaders     = []string{"skills", "technologies", "competencies", "technical proficiencies", "tech stack", "tools"}
	headerQualifiers  = map[string]struct{}{
		"technical": {}, "professional": {}, "relevant": {}, "key": {}, "core": {}, "and": {},
		"other": {}, "additional": {}, "selected": {}, "personal": {}, "programming": {},
		"software": {}, "industry": {}, "training": {}, "history": {}, "areas": {}, "of": {},
		"my": {}, "soft": {}, "hard": {}, "recent": {}, "previous": {}, "related": {},
		"highlights": {}, "overview": {}, "information": {}, "details": {}, "research": {},
		"open": {}, "source": {}, "side": {}, "notable": {}, "spoken": {}, "expertise": {},
		"skill": {}, "summary": {}, "work": {}, "academic": {},
	}
	otherHeaders      = []string{
		"summary", "objective", "profile", "about me", "projects", "certifications", "certificates",
		"awards", "achievements", "publications", "interests", "hobbies", "references", "contact",
		"volunteer", "languages", "courses",
	}

	degreeKeywords = []string{
		"bachelor", "master", "phd", "ph.d", "doctorate", "b.sc", "m.sc", "bsc", "msc", "b.s.", "m.s.",
		"b.a.", "m.a.", "mba", "b.tech", "m.tech", "btech", "mtech", "b.e.", "associate degree",
		"diploma", "university", "college", "institute of", "school of", "degree", "gpa",
	}

	employerKeywords = []string{
		"inc", "inc.", "llc", "ltd", "corp", "corporation", "company", "gmbh", "technologies",
		"solutions", "labs", "intern", "engineer", "developer", "manager", "analyst", "consultant",
		"present", "current",
	}
)

// Skill categories used for resume summaries and the dominant-category title
// fallback of the keyword builder.
const (
	CategoryProgramming = "Programming"
	CategoryDataScience = "Data Science"
	CategoryCloudDevOps = "Cloud & DevOps"
	CategoryDatabases   = "Databases"
	CategoryWebMobile   = "Web & Mobile"
	CategoryOther       = "Other"
)

// CategoryOrder is the order in which categories are evaluated and reported.
var CategoryOrder = []string{
	CategoryProgramming,
	CategoryDataScience,
	CategoryCloudDevOps,
	CategoryDatabases,
	CategoryWebMobile,
	CategoryOther,
}

var categoryKeywords = map[string][]string{
	CategoryProgramming: {"python", "java", "javascript", "typescript", "c++", "c#", "ruby", "go", "golang", "rust", "scala", "kotlin", "php"},
	CategoryDataScience: {"ml", "ai", "machine learning", "deep learning", "data science", "scikit", "numpy", "pandas", "tensorflow", "pytorch", "nlp", "statistics"},
	CategoryCloudDevOps: {"aws", "azure", "gcp", "cloud", "ci/cd", "git", "docker", "kubernetes", "terraform", "jenkins", "devops"},
	CategoryDatabases:   {"sql", "mysql", "postgresql", "mongodb", "nosql", "redis", "database", "oracle"},
	CategoryWebMobile:   {"react", "angular", "vue", "node", "android", "ios", "html", "css", "flutter", "django", "flask"},
}
