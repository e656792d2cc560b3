// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Search Discovery - these keys define how queries are issued against YouTube.
const (
	SearchLimit                = "search.limit"
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Media Playback - these keys govern the external mpv process and transport behavior.
const (
	PlayerVolumeDefault  = "player.volume_default"
	PlayerVolumeStep     = "player.volume_step"
	PlayerSeekStep       = "player.seek_step"
	PlayerPollIntervalMS = "player.poll_interval_ms"
)

// Background Workers - these keys size the asynchronous job pool.
const (
	WorkersPoolSize = "workers.pool_size"
)

// Network - these keys bound outbound request latency.
const (
	NetworkTimeoutSeconds = "network.timeout_seconds"
)

// Terminal User Interface (TUI) - these keys define the primary interactive environment's styling and logic.
const (
	TUIItemSpacing        = "tui.item_spacing"
	TUISearchPromptString = "tui.search_prompt"
	TUIThumbnails         = "tui.thumbnails"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
