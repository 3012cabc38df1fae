package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToExam(examID string, msgType string, payload interface{})
	DisconnectExam(examID string)
}
