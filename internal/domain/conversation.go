// Package domain contains core domain types for the housing outlook dashboard.
package domain

import "strings"

// Speaker identifies who produced a conversation turn.
type Speaker string

const (
	// SpeakerUser is the operator typing into the chat.
	SpeakerUser Speaker = "user"
	// SpeakerAssistant is the generation model.
	SpeakerAssistant Speaker = "model"
)

// Label returns the prefix used when a turn is replayed into a prompt.
func (s Speaker) Label() string {
	if s == SpeakerUser {
		return "User"
	}
	return "AI"
}

// ConversationTurn is one message in a chat session.
type ConversationTurn struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
	IsError bool    `json:"is_error,omitempty"`
}

// OccupancyStatus describes the operator's current housing situation.
type OccupancyStatus string

const (
	// StatusNoHome is a renter without an owned home.
	StatusNoHome OccupancyStatus = "no_home"
	// StatusOneHome owns one home and wants to move up.
	StatusOneHome OccupancyStatus = "one_home"
	// StatusMultiHome owns several homes.
	StatusMultiHome OccupancyStatus = "multi_home"
)

var occupancyLabels = map[OccupancyStatus]string{
	StatusNoHome:    "무주택자 (전월세 거주)",
	StatusOneHome:   "1주택자 (갈아타기 희망)",
	StatusMultiHome: "다주택자 (투자/증여 고민)",
}

// OccupancyStatuses lists all statuses in display order.
func OccupancyStatuses() []OccupancyStatus {
	return []OccupancyStatus{StatusNoHome, StatusOneHome, StatusMultiHome}
}

// Valid reports whether s is a known status.
func (s OccupancyStatus) Valid() bool {
	_, ok := occupancyLabels[s]
	return ok
}

// Label returns the human-readable Korean label for the status.
func (s OccupancyStatus) Label() string {
	if label, ok := occupancyLabels[s]; ok {
		return label
	}
	return string(s)
}

// ParseOccupancyStatus accepts either the status code or its display label.
// An empty string selects StatusNoHome, matching the form's default.
func ParseOccupancyStatus(raw string) (OccupancyStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return StatusNoHome, nil
	}
	if s := OccupancyStatus(raw); s.Valid() {
		return s, nil
	}
	for s, label := range occupancyLabels {
		if label == raw {
			return s, nil
		}
	}
	return "", &ValidationError{Field: "status", Message: "알 수 없는 주택 보유 상태입니다."}
}

// StrategyRequest is the transient input of one strategy generation.
type StrategyRequest struct {
	OccupancyStatus   OccupancyStatus `json:"status"`
	TargetDescription string          `json:"target"`
}
