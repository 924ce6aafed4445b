package socket

import (
	"fmt"
)

// Broadcaster provides high-level methods for broadcasting schedule events
type Broadcaster struct {
	hub *Hub
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

func groupRoom(groupID string) string {
	return fmt.Sprintf("group:%s", groupID)
}

// ============================================
// Group Broadcasting
// ============================================

// BroadcastGroupCreated notifies the creator's other connected sessions
func (b *Broadcaster) BroadcastGroupCreated(creatorID string, group map[string]interface{}) {
	b.hub.SendToUser(creatorID, MessageGroupCreated, group)
}

// BroadcastMemberAdded broadcasts a new membership to connected group members
func (b *Broadcaster) BroadcastMemberAdded(groupID string, member map[string]interface{}, excludeUserID string) {
	b.hub.SendToRoom(groupRoom(groupID), MessageMemberAdded, member, excludeUserID)
}

// ============================================
// Shift Broadcasting
// ============================================

// BroadcastShiftCreated broadcasts shift creation to connected group members
func (b *Broadcaster) BroadcastShiftCreated(groupID string, shift map[string]interface{}, excludeUserID string) {
	b.hub.SendToRoom(groupRoom(groupID), MessageShiftCreated, shift, excludeUserID)
}

// BroadcastShiftAssigned notifies the assignee and the group room
func (b *Broadcaster) BroadcastShiftAssigned(groupID, assigneeID string, shift map[string]interface{}, assignedBy string) {
	payload := map[string]interface{}{
		"shift":      shift,
		"assigneeId": assigneeID,
		"assignedBy": assignedBy,
	}
	b.hub.SendToUser(assigneeID, MessageShiftAssigned, payload)
	b.hub.SendToRoom(groupRoom(groupID), MessageShiftAssigned, payload, assigneeID)
}
