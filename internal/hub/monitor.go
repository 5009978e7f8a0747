package hub

import (
	"github.com/Rishu1724/TextMeIfYouCan/internal/model"
)

// MonitorService gathers hub statistics for the monitor endpoint.
type MonitorService struct {
	registry RoomRegistry
}

func NewMonitorService(registry RoomRegistry) *MonitorService {
	return &MonitorService{registry: registry}
}

// GetStats snapshots connections and room membership.
func (ms *MonitorService) GetStats() model.MonitorResponse {
	subs := ms.registry.Subscribers()

	users := make(map[string]struct{}, len(subs))
	clients := make([]model.ClientInfo, 0, len(subs))
	for _, sub := range subs {
		users[sub.UserID()] = struct{}{}
		clients = append(clients, model.ClientInfo{
			ClientID: sub.ID(),
			UserID:   sub.UserID(),
			Rooms:    ms.registry.MemberRooms(sub.ID()),
		})
	}

	rooms := ms.registry.Rooms()
	roomDetails := make([]model.RoomInfo, 0, len(rooms))
	for roomID, members := range rooms {
		roomDetails = append(roomDetails, model.RoomInfo{
			ConversationID: roomID,
			TotalMembers:   len(members),
			MemberIDs:      members,
		})
	}

	status := "healthy"
	if len(subs) == 0 {
		status = "idle"
	}

	return model.MonitorResponse{
		Status: status,
		Connections: model.ConnectionStats{
			TotalConnected: len(subs),
			DistinctUsers:  len(users),
		},
		Rooms: model.RoomStats{
			TotalRooms:  len(rooms),
			RoomDetails: roomDetails,
		},
		Clients: clients,
	}
}
