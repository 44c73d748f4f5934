package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ChatRoom is a persistent two-party chat channel. RoomName is derived
// from the participant pair and carries a unique constraint so that
// concurrent creation of the same pair cannot produce duplicates.
type ChatRoom struct {
	// RoomID is the internal primary key messages reference.
	RoomID int64 `gorm:"primaryKey;autoIncrement"`
	// RoomName is "<hostId>_<guestId>" in creation order.
	RoomName string `gorm:"type:text;uniqueIndex;not null"`
	// PostingID links the room to the match posting it originated from.
	PostingID int64 `gorm:"index"`
	CreatedAt time.Time

	Members []RoomMember `gorm:"foreignKey:RoomID;references:RoomID"`
}

// RoomMember is one participant entry of a room; exactly two exist per
// room and exactly one carries IsHost.
type RoomMember struct {
	ID     int64 `gorm:"primaryKey;autoIncrement"`
	RoomID int64 `gorm:"not null;index:idx_room_member"`
	UserID int64 `gorm:"not null;index:idx_room_member"`
	IsHost bool  `gorm:"not null;default:false"`
}

// RoomNameFor derives the room identifier for a pair, host first.
// Calling it twice with the same arguments always yields the same name.
func RoomNameFor(hostID, guestID int64) string {
	return fmt.Sprintf("%d_%d", hostID, guestID)
}

// FlipRoomName swaps the two ids of a room name. Lookups tolerate either
// orientation even though creation always writes host first.
func FlipRoomName(roomName string) string {
	a, b, err := splitRoomName(roomName)
	if err != nil {
		return roomName
	}
	return RoomNameFor(b, a)
}

// CounterpartID returns the other participant encoded in a room name.
func CounterpartID(userID int64, roomName string) (int64, error) {
	a, b, err := splitRoomName(roomName)
	if err != nil {
		return 0, err
	}
	if a == userID {
		return b, nil
	}
	return a, nil
}

func splitRoomName(roomName string) (int64, int64, error) {
	parts := strings.SplitN(roomName, "_", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed room name %q", roomName)
	}
	a, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed room name %q", roomName)
	}
	b, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed room name %q", roomName)
	}
	return a, b, nil
}
