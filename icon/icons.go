package icon

// Icon identifies a UI symbol in the global registry.
type Icon int

const (
	Play Icon = iota + 1
	Pause
	Stop
	Note
	Search
	Volume
	Success
	Fail
	Progress
	Question
	Mark
	Clock
)

var icons = map[Icon]*iconDef{
	Play: {
		emoji: "▶️",
		nerd:  "",
		plain: ">",
	},
	Pause: {
		emoji: "⏸️",
		nerd:  "",
		plain: "||",
	},
	Stop: {
		emoji: "⏹️",
		nerd:  "",
		plain: "[]",
	},
	Note: {
		emoji: "🎵",
		nerd:  "",
		plain: "~",
	},
	Search: {
		emoji: "🔍",
		nerd:  "",
		plain: "?",
	},
	Volume: {
		emoji: "🔊",
		nerd:  "",
		plain: "vol",
	},
	Success: {
		emoji: "✅",
		nerd:  "",
		plain: "+",
	},
	Fail: {
		emoji: "❌",
		nerd:  "",
		plain: "x",
	},
	Progress: {
		emoji: "⏳",
		nerd:  "",
		plain: "*",
	},
	Question: {
		emoji: "❓",
		nerd:  "",
		plain: "?",
	},
	Mark: {
		emoji: "🔖",
		nerd:  "",
		plain: "o",
	},
	Clock: {
		emoji: "🕐",
		nerd:  "",
		plain: "@",
	},
}
