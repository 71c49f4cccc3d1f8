package model

// Issue 触发本次运行的 Issue 元数据
type Issue struct {
	Title      string `mapstructure:"title"`
	Body       string `mapstructure:"body"`
	Number     string `mapstructure:"number"`
	URL        string `mapstructure:"url"`
	Author     string `mapstructure:"author"`
	Assignee   string `mapstructure:"assignee"`
	Repository string `mapstructure:"repository"`
}

// 分类取值
const (
	ClassificationBug           = "bug"
	ClassificationFeature       = "feature"
	ClassificationEnhancement   = "enhancement"
	ClassificationQuestion      = "question"
	ClassificationDocumentation = "documentation"
	ClassificationOther         = "other"
)

// 优先级取值
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// MaxSuggestions 建议条目上限
const MaxSuggestions = 3

// AnalysisResult LLM 分析结果
type AnalysisResult struct {
	Summary         string   `json:"summary"`
	Classification  string   `json:"classification"`
	Priority        string   `json:"priority"`
	Suggestions     []string `json:"suggestions"`
	NeedsResearch   bool     `json:"needs_research"`
	ResearchQuery   string   `json:"research_query,omitempty"`
	ResearchResults string   `json:"-"`
	// Degraded 为 true 表示模型输出无法解析，结果由默认值构造
	Degraded bool `json:"-"`
}

// Researched 是否进行过联网搜索
func (r *AnalysisResult) Researched() bool {
	return r.NeedsResearch && r.ResearchResults != ""
}
