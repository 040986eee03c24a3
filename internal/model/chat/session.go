package chat

import "time"

// Preferences 会话级别的界面与语言设置。
type Preferences struct {
	Language string `json:"language"`
	DarkMode bool   `json:"darkMode"`
}

// Snapshot captures a point-in-time copy of a session for the frontend.
type Snapshot struct {
	ID          string          `json:"id"`
	Preferences Preferences     `json:"preferences"`
	Messages    []Message       `json:"messages"`
	Votes       map[string]Vote `json:"votes"`
	CreatedAt   time.Time       `json:"createdAt"`
}
