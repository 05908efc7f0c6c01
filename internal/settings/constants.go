package settings

// Setting keys and defaults.
const (
	// SiteNameKey is the setting key for the UI site name.
	SiteNameKey = "SITE_NAME"
	// DefaultSiteName is the fallback UI site name.
	DefaultSiteName = "RubricHub"
	// AIUseLevelsKey holds the AI use scale presets offered in the row editor.
	AIUseLevelsKey = "AI_USE_LEVELS"
	// DefaultRowCountKey controls how many blank rows a new scratch rubric gets.
	DefaultRowCountKey = "DEFAULT_ROW_COUNT"
	// DefaultRowCount is the fallback blank row count.
	DefaultRowCount = 3
)

// DefaultAIUseLevels is the fallback AI use scale.
var DefaultAIUseLevels = []string{
	"Level 1 - No AI",
	"Level 2 - AI for planning",
	"Level 3 - AI for collaboration",
	"Level 4 - Full AI with oversight",
	"Level 5 - AI exploration",
}
