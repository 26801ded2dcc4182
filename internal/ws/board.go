package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ukai02/iitk-transport/internal/domain"
	"github.com/ukai02/iitk-transport/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// BoardMarker is one driver on the live rider board.
type BoardMarker struct {
	DriverID    uint   `json:"driver_id"`
	Name        string `json:"name"`
	Vehicle     string `json:"vehicle_type"`
	PhotoURL    string `json:"photo_url"`
	Location    string `json:"location_name"`
	IsOnline    bool   `json:"is_online"`
	LastUpdated string `json:"last_updated"`
}

// BoardHub pushes presence changes to connected rider dashboards. The
// board mirrors the public listing, so connections need no auth.
type BoardHub struct {
	*Hub
}

func NewBoardHub() *BoardHub {
	return &BoardHub{Hub: NewHub()}
}

// DriverChanged broadcasts a driver's new presence to every viewer.
func (b *BoardHub) DriverChanged(driver *models.Driver, status *models.DriverStatus) {
	b.BroadcastAll(map[string]interface{}{"type": "driver", "driver": MarkerFrom(driver, status)})
}

// MarkerFrom builds a board marker from a driver and its status row.
func MarkerFrom(d *models.Driver, s *models.DriverStatus) BoardMarker {
	m := BoardMarker{
		DriverID: d.ID,
		Name:     d.Name,
		Vehicle:  d.VehicleType,
		PhotoURL: d.PhotoURL,
	}
	if s != nil {
		m.Location = s.LocationName
		m.IsOnline = s.IsOnline
		m.LastUpdated = domain.FormatDisplayTime(s.LastUpdated)
	}
	return m
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// UpgradeBoardWS upgrades a rider connection and streams board updates.
// snapshot is called once per connection to send the current online list.
func UpgradeBoardWS(hub *BoardHub, snapshot func() []BoardMarker) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		client := &Client{Send: make(chan []byte, 256)}
		hub.Register(client)
		defer client.Close()

		data, _ := json.Marshal(map[string]interface{}{"type": "board", "drivers": snapshot()})
		client.Send <- data

		go writePump(client, conn)
		readPump(conn)
	}
}

// writePump copies messages from client.Send to the connection.
func writePump(c *Client, conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.Send:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func readPump(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
